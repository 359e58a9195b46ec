package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finanza/internal/errors"
	"finanza/internal/models"
	"finanza/internal/pagination"
	"finanza/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for recording a
// transaction. Type accepts both the canonical English tokens and the
// legacy Spanish ones.
type CreateTransactionRequest struct {
	AccountID           string          `json:"account_id" binding:"required,uuid"`
	Type                string          `json:"type" binding:"required,transaction_type"`
	Amount              decimal.Decimal `json:"amount" binding:"required"`
	Currency            string          `json:"currency" binding:"omitempty,currency"`
	Category            string          `json:"category" binding:"max=100"`
	Description         string          `json:"description" binding:"max=500"`
	Date                time.Time       `json:"date"`
	AdjustmentDirection *string         `json:"adjustment_direction" binding:"omitempty,adjustment_direction"`
}

// CreateTransferRequest represents the request payload for a transfer
// between two accounts. The amount is stated in the source currency.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id" binding:"required,uuid"`
	ToAccountID   string          `json:"to_account_id" binding:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"max=500"`
	Date          time.Time       `json:"date"`
}

// CreateTransaction handles recording a new transaction.
// @Summary     Create a transaction
// @Description Record an income, expense or adjustment against an account
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var direction *models.AdjustmentDirection
	if req.AdjustmentDirection != nil {
		d := models.AdjustmentDirection(*req.AdjustmentDirection)
		direction = &d
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID, req.AccountID, req.Type, req.Amount, req.Currency, req.Category, req.Description, req.Date, direction,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": transaction.Type, "amount": transaction.Amount, "category": transaction.Category})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// CreateTransfer handles moving money between two accounts.
// @Summary     Create a transfer
// @Description Move money between two accounts, converting across currencies at the user's rate
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransferRequest true "Transfer details"
// @Success     201 {object} models.Transaction "Transfer created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/transfer [post]
func (h *TransactionHandler) CreateTransfer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateTransfer(
		userID, req.FromAccountID, req.ToAccountID, req.Amount, req.Description, req.Date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSFER", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"from": req.FromAccountID, "to": req.ToAccountID, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// parseTransactionFilter reads the optional list filters from the query string.
func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from_date")
		}
		filter.FromDate = &t
	}
	if v := c.Query("to_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to_date")
		}
		filter.ToDate = &t
	}
	if v := c.Query("type"); v != "" {
		parsed, ok := models.ParseTransactionType(v)
		if !ok {
			return filter, apperrors.ErrInvalidTransactionType
		}
		filter.Type = &parsed
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}

	return filter, nil
}

// GetTransactions handles listing transactions for the authenticated user.
// @Summary     Get transactions
// @Description Get a paginated list of transactions, newest first, with optional filters
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from_date query string false "Earliest date (RFC 3339)"
// @Param       to_date   query string false "Latest date (RFC 3339)"
// @Param       type      query string false "Transaction type"
// @Param       category  query string false "Category name"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccountTransactions handles listing transactions for one account.
// @Summary     Get account transactions
// @Description Get the transactions touching one account, including incoming transfers
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Account ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/transactions [get]
func (h *TransactionHandler) GetAccountTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetAccountTransactions(userID, accountID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction handles fetching a single transaction.
// @Summary     Get a transaction
// @Description Get a single transaction by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction.
// @Summary     Delete a transaction
// @Description Delete a transaction and roll its effect back out of the account balances
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
