package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation maps to 400",
			err:        apperrors.Validationf("bad decimal"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not found maps to 404",
			err:        apperrors.NotFoundf("no such account"),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "conflict maps to 409",
			err:        apperrors.Conflictf("duplicate reconciliation"),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "business rule maps to 422",
			err:        apperrors.BusinessRulef("cannot pay a cancelled transaction"),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown maps to masked 500",
			err:        http.ErrServerClosed,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zap.NewNop(), tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
