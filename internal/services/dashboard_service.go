package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "finanza/internal/errors"
	"finanza/internal/ledger"
	"finanza/internal/models"
)

// dashboardService composes the aggregation engine into the summary the
// dashboard renders. It owns no arithmetic of its own.
type dashboardService struct {
	db       *gorm.DB
	settings SettingServicer
	budgets  BudgetServicer
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB, settings SettingServicer, budgets BudgetServicer) DashboardServicer {
	return &dashboardService{db: db, settings: settings, budgets: budgets}
}

// GetSummary builds the dashboard for one month. An empty month defaults
// to the current one.
func (s *dashboardService) GetSummary(userID, month string) (*DashboardSummary, error) {
	if month == "" {
		month = ledger.MonthOf(time.Now())
	}
	year, monthOfYear, err := ledger.ParseMonth(month)
	if err != nil {
		return nil, apperrors.ErrInvalidMonth
	}

	rate, err := s.settings.GetExchangeRate(userID)
	if err != nil {
		return nil, err
	}

	var accounts []models.Account
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := s.db.Where("user_id = ?", userID).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	start := time.Date(year, monthOfYear, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	cash, err := ledger.TotalAccountValue(accounts, rate)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	invested := ledger.TotalInvestmentValue(investments)

	flow, err := ledger.MonthlyFlow(transactions, month, rate)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rows, err := s.budgets.Tracking(userID, month)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		Month:        month,
		ExchangeRate: rate,
		NetWorth:     cash.Add(invested),
		Income:       flow.Income,
		Expense:      flow.Expense,
		Composition:  Composition{Cash: cash, Invested: invested},
		Budgets:      rows,
	}, nil
}
