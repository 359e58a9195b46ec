package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finanza/internal/models"
	"finanza/internal/services"
)

type mockDashboardService struct {
	getSummaryFn func(userID, month string) (*services.DashboardSummary, error)
}

func (m *mockDashboardService) GetSummary(userID, month string) (*services.DashboardSummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(userID, month)
	}
	return &services.DashboardSummary{Month: month, ExchangeRate: models.DefaultExchangeRate}, nil
}

var _ services.DashboardServicer = (*mockDashboardService)(nil)

func setupDashboardRouter(handler *DashboardHandler) *gin.Engine {
	r := gin.New()
	r.GET("/dashboard", injectUserID(testUserID), handler.GetSummary)
	return r
}

func TestDashboardHandler_GetSummary(t *testing.T) {
	t.Run("passes month through", func(t *testing.T) {
		var gotMonth string
		svc := &mockDashboardService{
			getSummaryFn: func(_, month string) (*services.DashboardSummary, error) {
				gotMonth = month
				return &services.DashboardSummary{Month: month, NetWorth: decimal.Zero}, nil
			},
		}
		handler := NewDashboardHandler(svc)
		r := setupDashboardRouter(handler)

		rec := doRequest(r, http.MethodGet, "/dashboard?month=2024-03", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotMonth != "2024-03" {
			t.Errorf("expected month 2024-03, got %s", gotMonth)
		}
	})

	t.Run("applies offset navigation", func(t *testing.T) {
		var gotMonth string
		svc := &mockDashboardService{
			getSummaryFn: func(_, month string) (*services.DashboardSummary, error) {
				gotMonth = month
				return &services.DashboardSummary{Month: month}, nil
			},
		}
		handler := NewDashboardHandler(svc)
		r := setupDashboardRouter(handler)

		rec := doRequest(r, http.MethodGet, "/dashboard?month=2024-01&offset=-1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotMonth != "2023-12" {
			t.Errorf("expected offset to land on 2023-12, got %s", gotMonth)
		}
	})

	t.Run("returns 400 on bad offset", func(t *testing.T) {
		handler := NewDashboardHandler(&mockDashboardService{})
		r := setupDashboardRouter(handler)

		rec := doRequest(r, http.MethodGet, "/dashboard?month=2024-01&offset=next", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid month token", func(t *testing.T) {
		handler := NewDashboardHandler(&mockDashboardService{})
		r := setupDashboardRouter(handler)

		rec := doRequest(r, http.MethodGet, "/dashboard?month=enero&offset=1", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
