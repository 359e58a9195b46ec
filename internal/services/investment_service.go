package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finanza/internal/errors"
	"finanza/internal/models"
	"finanza/internal/pagination"
)

// investmentService handles investment-related business logic.
type investmentService struct {
	db *gorm.DB
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB) InvestmentServicer {
	return &investmentService{db: db}
}

// CreateInvestment records a new holding bought at a fixed price.
func (s *investmentService) CreateInvestment(userID, symbol, name string, quantity, buyPrice, buyCommission decimal.Decimal) (*models.Investment, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
	}
	if !quantity.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
	}
	if !buyPrice.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "buy price must be positive")
	}
	if buyCommission.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "commission cannot be negative")
	}

	investment := &models.Investment{
		UserID:        userID,
		Symbol:        symbol,
		Name:          name,
		Quantity:      quantity,
		BuyPrice:      buyPrice,
		BuyCommission: buyCommission,
	}

	if err := s.db.Create(investment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return investment, nil
}

// GetUserInvestments returns a paginated list of the user's holdings.
func (s *investmentService) GetUserInvestments(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	page.Defaults()

	base := s.db.Model(&models.Investment{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := base.Order("symbol ASC").Scopes(pagination.Paginate(page)).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(investments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetInvestmentByID returns an investment by ID if it belongs to the user.
func (s *investmentService) GetInvestmentByID(userID, investmentID string) (*models.Investment, error) {
	var investment models.Investment
	if err := s.db.Where("id = ? AND user_id = ?", investmentID, userID).First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &investment, nil
}

// UpdatePrice stores a fresh market price for the holding.
func (s *investmentService) UpdatePrice(userID, investmentID string, currentPrice decimal.Decimal) (*models.Investment, error) {
	if !currentPrice.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be positive")
	}

	investment, err := s.GetInvestmentByID(userID, investmentID)
	if err != nil {
		return nil, err
	}

	investment.CurrentPrice = &currentPrice
	if err := s.db.Model(investment).Update("current_price", currentPrice).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return investment, nil
}

// DeleteInvestment soft deletes a holding.
func (s *investmentService) DeleteInvestment(userID, investmentID string) error {
	investment, err := s.GetInvestmentByID(userID, investmentID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(investment).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
