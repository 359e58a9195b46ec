package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finanza/internal/errors"
	"finanza/internal/ledger"
	"finanza/internal/services"
)

// DashboardHandler handles dashboard requests.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary handles building the dashboard for one month.
// @Summary     Get the dashboard summary
// @Description Net worth, monthly income and expense, composition, and budget rows for a month
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month  query string false "Month token (YYYY-MM, defaults to the current month)"
// @Param       offset query int    false "Months to shift from the requested month (for prev/next navigation)"
// @Success     200 {object} services.DashboardSummary "Dashboard summary"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month := c.Query("month")
	if month == "" {
		month = ledger.MonthOf(time.Now())
	}

	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid offset"))
			return
		}
		month, err = ledger.ShiftMonth(month, offset)
		if err != nil {
			respondWithError(c, apperrors.ErrInvalidMonth)
			return
		}
	}

	summary, err := h.dashboardService.GetSummary(userID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
