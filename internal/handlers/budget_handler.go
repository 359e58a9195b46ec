package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finanza/internal/errors"
	"finanza/internal/ledger"
	"finanza/internal/pagination"
	"finanza/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// UpsertBudgetRequest represents the request payload for setting a budget.
// Posting the same category and month twice overwrites the first limit.
type UpsertBudgetRequest struct {
	Category string          `json:"category" binding:"required,min=1,max=100"`
	Month    string          `json:"month" binding:"required,month_token"`
	Currency string          `json:"currency" binding:"required,currency"`
	Limit    decimal.Decimal `json:"limit" binding:"required"`
}

// UpsertBudget handles creating or overwriting a budget.
// @Summary     Set a budget
// @Description Create a budget for a category and month, or overwrite the existing one
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpsertBudgetRequest true "Budget details"
// @Success     200 {object} models.Budget "Budget stored"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) UpsertBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpsertBudget(userID, req.Category, req.Month, req.Currency, req.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPSERT_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"category": req.Category, "month": req.Month, "limit": req.Limit})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudgets handles listing budgets for the authenticated user.
// @Summary     Get budgets
// @Description Get a paginated list of budgets, newest month first
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
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

	result, err := h.budgetService.GetUserBudgets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTracking handles the per-month budget tracking report.
// @Summary     Get budget tracking
// @Description Evaluate every effective budget for a month against its spending
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month token (YYYY-MM, defaults to the current month)"
// @Success     200 {array} ledger.BudgetRow "Budget tracking rows"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/tracking [get]
func (h *BudgetHandler) GetTracking(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month := c.Query("month")
	if month == "" {
		month = ledger.MonthOf(time.Now())
	}

	rows, err := h.budgetService.Tracking(userID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"month": month, "budgets": rows})
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete a budget
// @Description Delete a budget row; earlier months for the category carry forward again
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     204 "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
