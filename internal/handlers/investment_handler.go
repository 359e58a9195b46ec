package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finanza/internal/errors"
	"finanza/internal/pagination"
	"finanza/internal/services"
)

// InvestmentHandler handles investment-related requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
	auditService      services.AuditServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer, auditService services.AuditServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService, auditService: auditService}
}

// CreateInvestmentRequest represents the request payload for recording a holding.
type CreateInvestmentRequest struct {
	Symbol        string          `json:"symbol" binding:"required,min=1,max=12"`
	Name          string          `json:"name" binding:"max=100"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	BuyPrice      decimal.Decimal `json:"buy_price" binding:"required"`
	BuyCommission decimal.Decimal `json:"buy_commission"`
}

// UpdatePriceRequest represents the request payload for a price refresh.
type UpdatePriceRequest struct {
	CurrentPrice decimal.Decimal `json:"current_price" binding:"required"`
}

// CreateInvestment handles recording a new holding.
// @Summary     Create an investment
// @Description Record a holding bought at a fixed USD price
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateInvestmentRequest true "Investment details"
// @Success     201 {object} models.Investment "Investment created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [post]
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investment, err := h.investmentService.CreateInvestment(userID, req.Symbol, req.Name, req.Quantity, req.BuyPrice, req.BuyCommission)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_INVESTMENT", "investment", investment.ID, c.ClientIP(),
		map[string]interface{}{"symbol": investment.Symbol, "quantity": req.Quantity, "buy_price": req.BuyPrice})

	c.JSON(http.StatusCreated, gin.H{"investment": investment})
}

// GetInvestments handles listing holdings for the authenticated user.
// @Summary     Get investments
// @Description Get a paginated list of the user's holdings
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Investment] "Paginated investments"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [get]
func (h *InvestmentHandler) GetInvestments(c *gin.Context) {
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

	result, err := h.investmentService.GetUserInvestments(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdatePrice handles refreshing a holding's market price.
// @Summary     Update an investment price
// @Description Store a fresh market price for a holding
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Investment ID"
// @Param       request body UpdatePriceRequest true "New price"
// @Success     200 {object} models.Investment "Investment updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id}/price [put]
func (h *InvestmentHandler) UpdatePrice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investment, err := h.investmentService.UpdatePrice(userID, investmentID, req.CurrentPrice)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_INVESTMENT_PRICE", "investment", investmentID, c.ClientIP(),
		map[string]interface{}{"current_price": req.CurrentPrice})

	c.JSON(http.StatusOK, gin.H{"investment": investment})
}

// DeleteInvestment handles deleting a holding.
// @Summary     Delete an investment
// @Description Delete a holding
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     204 "Investment deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [delete]
func (h *InvestmentHandler) DeleteInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.investmentService.DeleteInvestment(userID, investmentID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_INVESTMENT", "investment", investmentID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
