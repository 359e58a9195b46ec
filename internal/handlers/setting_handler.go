package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finanza/internal/errors"
	"finanza/internal/services"
)

// SettingHandler handles per-user settings requests.
type SettingHandler struct {
	settingService services.SettingServicer
	auditService   services.AuditServicer
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingService services.SettingServicer, auditService services.AuditServicer) *SettingHandler {
	return &SettingHandler{settingService: settingService, auditService: auditService}
}

// UpdateExchangeRateRequest represents the request payload for setting the
// VES per USD exchange rate.
type UpdateExchangeRateRequest struct {
	ExchangeRate float64 `json:"exchange_rate" binding:"required"`
}

// GetExchangeRate handles fetching the user's exchange rate.
// @Summary     Get the exchange rate
// @Description Get the user's VES per USD exchange rate
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Exchange rate"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/exchange-rate [get]
func (h *SettingHandler) GetExchangeRate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rate, err := h.settingService.GetExchangeRate(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exchange_rate": rate})
}

// UpdateExchangeRate handles storing a new exchange rate.
// @Summary     Set the exchange rate
// @Description Store a new VES per USD exchange rate for the user
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateExchangeRateRequest true "New exchange rate"
// @Success     200 {object} models.Setting "Setting updated"
// @Failure     400 {object} ErrorResponse "Invalid rate"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/exchange-rate [put]
func (h *SettingHandler) UpdateExchangeRate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	setting, err := h.settingService.SetExchangeRate(userID, req.ExchangeRate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXCHANGE_RATE", "setting", setting.ID, c.ClientIP(),
		map[string]interface{}{"exchange_rate": req.ExchangeRate})

	c.JSON(http.StatusOK, gin.H{"setting": setting})
}
