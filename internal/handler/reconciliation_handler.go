package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/service"
)

type ReconciliationHandler struct {
	reconciliations *service.ReconciliationService
	logger          *zap.Logger
}

func NewReconciliationHandler(reconciliations *service.ReconciliationService, logger *zap.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliations: reconciliations, logger: logger}
}

func (h *ReconciliationHandler) Create(c *gin.Context) {
	var req models.CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.reconciliations.Create(c.Request.Context(), tenantID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *ReconciliationHandler) List(c *gin.Context) {
	recs, err := h.reconciliations.List(c.Request.Context(), tenantID(c), c.Param("accountId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reconciliations": recs})
}

func (h *ReconciliationHandler) ListUnreconciled(c *gin.Context) {
	recs, err := h.reconciliations.ListUnreconciled(c.Request.Context(), tenantID(c), c.Param("accountId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reconciliations": recs})
}
