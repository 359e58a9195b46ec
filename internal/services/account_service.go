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

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account for the user. A nonzero opening
// balance is materialized as an adjustment transaction so that replaying
// the account history reproduces it.
func (s *accountService) CreateAccount(userID, name string, accountType models.AccountType, currency string, initialBalance decimal.Decimal) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	parsed, err := ledger.ParseCurrency(currency)
	if err != nil {
		return nil, apperrors.ErrUnknownCurrency
	}

	account := &models.Account{
		UserID:   userID,
		Name:     name,
		Type:     accountType,
		Currency: string(parsed),
		Balance:  initialBalance,
		IsActive: true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		if initialBalance.IsZero() {
			return nil
		}

		// The balance already carries the opening amount, so the row is
		// recorded without being applied.
		direction := models.AdjustmentUp
		amount := initialBalance
		if initialBalance.IsNegative() {
			direction = models.AdjustmentDown
			amount = initialBalance.Neg()
		}
		opening := &models.Transaction{
			UserID:              userID,
			AccountID:           account.ID,
			Type:                models.TransactionTypeAdjustment,
			Amount:              amount,
			Currency:            account.Currency,
			Description:         "Saldo inicial",
			Date:                time.Now(),
			AdjustmentDirection: &direction,
		}
		return tx.Create(opening).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return account, nil
}

// GetUserAccounts returns a paginated list of the user's active accounts.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	base := s.db.Model(&models.Account{}).Where("user_id = ? AND is_active = ?", userID, true)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Order("created_at ASC").Scopes(pagination.Paginate(page)).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves a single account owned by the user.
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount renames an account. Currency and type are immutable after
// creation so existing transactions keep their meaning.
func (s *accountService) UpdateAccount(userID, accountID, name string) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	account.Name = name
	if err := s.db.Save(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// DeleteAccount soft deletes an account together with its transactions.
// Transfers into the account from elsewhere lose their destination link.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).
			Where("to_account_id = ?", account.ID).
			Update("to_account_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(account).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// balanceDelta computes the signed balance change a transaction causes on
// the given account, in the account's own currency. Transfer amounts are
// stored in the source account currency and converted for the destination.
func balanceDelta(account *models.Account, t *models.Transaction, rate decimal.Decimal) (decimal.Decimal, error) {
	switch t.Type {
	case models.TransactionTypeIncome:
		return t.Amount, nil
	case models.TransactionTypeExpense:
		return t.Amount.Neg(), nil
	case models.TransactionTypeAdjustment:
		if t.AdjustmentDirection == nil {
			return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "adjustment direction is required")
		}
		if *t.AdjustmentDirection == models.AdjustmentDown {
			return t.Amount.Neg(), nil
		}
		return t.Amount, nil
	case models.TransactionTypeTransfer:
		if account.ID == t.AccountID {
			return t.Amount.Neg(), nil
		}
		if t.ToAccountID != nil && account.ID == *t.ToAccountID {
			from, err := ledger.ParseCurrency(t.Currency)
			if err != nil {
				return decimal.Zero, apperrors.Wrap(apperrors.ErrUnknownCurrency, err)
			}
			to, err := ledger.ParseCurrency(account.Currency)
			if err != nil {
				return decimal.Zero, apperrors.Wrap(apperrors.ErrUnknownCurrency, err)
			}
			converted, err := ledger.Convert(t.Amount, from, to, rate)
			if err != nil {
				return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return converted, nil
		}
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction does not touch account")
	}
	return decimal.Zero, apperrors.ErrInvalidTransactionType
}

// ApplyTransaction applies a transaction's effect to the account balance
// inside the caller's database transaction.
func (s *accountService) ApplyTransaction(tx *gorm.DB, account *models.Account, t *models.Transaction, rate decimal.Decimal) error {
	delta, err := balanceDelta(account, t, rate)
	if err != nil {
		return err
	}
	account.Balance = account.Balance.Add(delta)
	if err := tx.Model(account).Update("balance", account.Balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ReverseTransaction undoes a transaction's effect on the account balance,
// used when a transaction is deleted.
func (s *accountService) ReverseTransaction(tx *gorm.DB, account *models.Account, t *models.Transaction, rate decimal.Decimal) error {
	delta, err := balanceDelta(account, t, rate)
	if err != nil {
		return err
	}
	account.Balance = account.Balance.Sub(delta)
	if err := tx.Model(account).Update("balance", account.Balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RecalculateBalance replays every surviving transaction touching the
// account and rewrites its balance from scratch. Incoming transfer legs
// are converted at the supplied rate.
func (s *accountService) RecalculateBalance(userID, accountID string, rate decimal.Decimal) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.db.
		Where("account_id = ? OR to_account_id = ?", account.ID, account.ID).
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	balance := decimal.Zero
	for i := range transactions {
		delta, err := balanceDelta(account, &transactions[i], rate)
		if err != nil {
			return nil, err
		}
		balance = balance.Add(delta)
	}

	account.Balance = balance
	if err := s.db.Model(account).Update("balance", balance).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}
