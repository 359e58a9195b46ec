package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finanza/internal/errors"
	"finanza/internal/ledger"
	"finanza/internal/models"
	"finanza/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db       *gorm.DB
	settings SettingServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, settings SettingServicer) BudgetServicer {
	return &budgetService{db: db, settings: settings}
}

// UpsertBudget creates a budget for a (category, month) pair or, when one
// already exists, overwrites its limit and currency. There is never more
// than one budget per category per month.
func (s *budgetService) UpsertBudget(userID, category, month, currency string, limit decimal.Decimal) (*models.Budget, error) {
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if _, _, err := ledger.ParseMonth(month); err != nil {
		return nil, apperrors.ErrInvalidMonth
	}
	parsed, err := ledger.ParseCurrency(currency)
	if err != nil {
		return nil, apperrors.ErrUnknownCurrency
	}
	if limit.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit cannot be negative")
	}

	var budget models.Budget
	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND category = ? AND month = ?", userID, category, month).
			First(&budget).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A soft-deleted row still occupies the unique (user, category,
			// month) slot; bring it back instead of colliding with it.
			err = tx.Unscoped().
				Where("user_id = ? AND category = ? AND month = ?", userID, category, month).
				First(&budget).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				budget = models.Budget{
					UserID:   userID,
					Category: category,
					Month:    month,
					Currency: string(parsed),
					Limit:    limit,
				}
				return tx.Create(&budget).Error
			}
		}
		if err != nil {
			return err
		}
		budget.Currency = string(parsed)
		budget.Limit = limit
		budget.DeletedAt = gorm.DeletedAt{}
		return tx.Unscoped().Model(&budget).Updates(map[string]any{
			"currency":     budget.Currency,
			"limit_amount": budget.Limit,
			"deleted_at":   nil,
		}).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetUserBudgets returns a paginated list of the user's budgets, newest
// month first.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Order("month DESC, category ASC").Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// DeleteBudget soft deletes a budget. Earlier months' budgets for the same
// category become visible again through carry-forward.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Tracking evaluates every effective budget for the month against the
// month's spending.
func (s *budgetService) Tracking(userID, month string) ([]ledger.BudgetRow, error) {
	year, monthOfYear, err := ledger.ParseMonth(month)
	if err != nil {
		return nil, apperrors.ErrInvalidMonth
	}

	var budgets []models.Budget
	if err := s.db.Where("user_id = ?", userID).
		Order("month ASC, created_at ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Only the selected month can count against a budget. The window is
	// not narrowed by type here: stored rows may carry legacy Spanish
	// tokens, and the engine normalizes them before partitioning.
	start := time.Date(year, monthOfYear, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rate, err := s.settings.GetExchangeRate(userID)
	if err != nil {
		return nil, err
	}

	rows, err := ledger.Track(budgets, transactions, month, rate)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}
