package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
)

// respondError maps the core's error taxonomy onto HTTP statuses. Unknown
// errors are logged and masked; everything else carries its message through.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	kind := apperrors.KindOf(err)
	status := http.StatusInternalServerError

	switch kind {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindConflict:
		status = http.StatusConflict
	case apperrors.KindBusinessRule:
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind.String()})
}

// tenantID reads the tenant scope set by the middleware.
func tenantID(c *gin.Context) string {
	return c.GetString("tenant_id")
}
