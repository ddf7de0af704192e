package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("finance-core")
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("production logger should not emit debug logs")
	}
	if !log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("production logger should emit info logs")
	}

	dev := NewDevelopmentLogger("finance-core")
	if !dev.Core().Enabled(zapcore.DebugLevel) {
		t.Error("development logger should emit debug logs")
	}
}
