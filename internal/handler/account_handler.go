package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/civildate"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/service"
)

type AccountHandler struct {
	accounts   *service.AccountService
	statements *service.StatementService
	logger     *zap.Logger
}

func NewAccountHandler(accounts *service.AccountService, statements *service.StatementService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, statements: statements, logger: logger}
}

func (h *AccountHandler) Create(c *gin.Context) {
	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acct, err := h.accounts.Create(c.Request.Context(), tenantID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, acct)
}

func (h *AccountHandler) Get(c *gin.Context) {
	acct, err := h.accounts.Get(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, acct)
}

func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accounts.List(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *AccountHandler) AdjustBalance(c *gin.Context) {
	var req models.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acct, err := h.accounts.AdjustBalance(c.Request.Context(), tenantID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, acct)
}

func (h *AccountHandler) Statement(c *gin.Context) {
	from, err := civildate.Parse(c.Query("from"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	to, err := civildate.Parse(c.Query("to"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	stmt, err := h.statements.Statement(c.Request.Context(), tenantID(c), c.Param("id"), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stmt)
}
