package services

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finanza/internal/errors"
	"finanza/internal/models"
)

// settingService handles per-user settings.
type settingService struct {
	db *gorm.DB
}

// NewSettingService creates a new SettingServicer.
func NewSettingService(db *gorm.DB) SettingServicer {
	return &settingService{db: db}
}

// GetExchangeRate returns the user's configured VES per USD rate, falling
// back to the default when none has been saved yet.
func (s *settingService) GetExchangeRate(userID string) (decimal.Decimal, error) {
	var setting models.Setting
	if err := s.db.Where("user_id = ?", userID).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultExchangeRate, nil
		}
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !setting.ExchangeRate.IsPositive() {
		return models.DefaultExchangeRate, nil
	}
	return setting.ExchangeRate, nil
}

// SetExchangeRate stores a new exchange rate for the user. Zero, negative
// and non-finite rates are rejected.
func (s *settingService) SetExchangeRate(userID string, rate float64) (*models.Setting, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return nil, apperrors.ErrInvalidExchangeRate
	}
	value := decimal.NewFromFloat(rate)

	var setting models.Setting
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&setting).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			setting = models.Setting{UserID: userID, ExchangeRate: value}
			return tx.Create(&setting).Error
		}
		if err != nil {
			return err
		}
		setting.ExchangeRate = value
		return tx.Model(&setting).Update("exchange_rate", value).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &setting, nil
}
