package handler

import (
	"net/http"
	"strconv"

	"deuda_tracker/internal/model"
	"deuda_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler handles ledger movement requests
type TransactionHandler struct {
	service service.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(s service.LedgerService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	user, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	accountID, err := strconv.Atoi(c.Query("account_id"))
	if err != nil || accountID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.service.ListTransactions(c.Request.Context(), user.ID, accountID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	user, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	transaction, err := h.service.RecordTransaction(c.Request.Context(), user.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) ConfirmReceipt(c *gin.Context) {
	user, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	transactionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || transactionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	if err := h.service.ConfirmReceipt(c.Request.Context(), transactionID, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmed": true})
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	user, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	transactionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || transactionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	if err := h.service.DeleteTransaction(c.Request.Context(), transactionID, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// RegisterTransactionRoutes registers transaction routes
func (h *TransactionHandler) RegisterTransactionRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	txGroup := rg.Group("/transactions")
	txGroup.Use(authMW)
	{
		txGroup.GET("", h.ListTransactions)
		txGroup.POST("", h.CreateTransaction)
		txGroup.POST("/:id/confirm-receipt", h.ConfirmReceipt)
		txGroup.DELETE("/:id", h.DeleteTransaction)
	}
}
