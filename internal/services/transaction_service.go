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

// transactionService handles transaction-related business logic.
type transactionService struct {
	db       *gorm.DB
	accounts AccountServicer
	settings SettingServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accounts AccountServicer, settings SettingServicer) TransactionServicer {
	return &transactionService{db: db, accounts: accounts, settings: settings}
}

// CreateTransaction records an income, expense or adjustment against an
// account and moves the balance accordingly. Transfers go through
// CreateTransfer. Legacy Spanish type tokens are accepted and normalized.
func (s *transactionService) CreateTransaction(
	userID, accountID, rawType string,
	amount decimal.Decimal,
	currency, category, description string,
	date time.Time,
	direction *models.AdjustmentDirection,
) (*models.Transaction, error) {
	transactionType, ok := models.ParseTransactionType(rawType)
	if !ok {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if transactionType == models.TransactionTypeTransfer {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transfers must be created through the transfer endpoint")
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if transactionType == models.TransactionTypeAdjustment && direction == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "adjustment direction is required")
	}

	account, err := s.accounts.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	if currency == "" {
		currency = account.Currency
	}
	parsed, err := ledger.ParseCurrency(currency)
	if err != nil {
		return nil, apperrors.ErrUnknownCurrency
	}
	if string(parsed) != account.Currency {
		return nil, apperrors.ErrCurrencyMismatch
	}

	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:              userID,
		AccountID:           account.ID,
		Type:                transactionType,
		Amount:              amount,
		Currency:            string(parsed),
		Category:            category,
		Description:         description,
		Date:                date,
		AdjustmentDirection: direction,
	}

	rate, err := s.settings.GetExchangeRate(userID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.accounts.ApplyTransaction(tx, account, transaction, rate)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// CreateTransfer moves money between two of the user's accounts. The
// amount is stated in the source account currency and converted at the
// user's exchange rate when the destination currency differs.
func (s *transactionService) CreateTransfer(
	userID, fromAccountID, toAccountID string,
	amount decimal.Decimal,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if fromAccountID == toAccountID {
		return nil, apperrors.ErrSameAccountTransfer
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}

	from, err := s.accounts.GetAccountByID(userID, fromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.accounts.GetAccountByID(userID, toAccountID)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   from.ID,
		ToAccountID: &to.ID,
		Type:        models.TransactionTypeTransfer,
		Amount:      amount,
		Currency:    from.Currency,
		Description: description,
		Date:        date,
	}

	rate, err := s.settings.GetExchangeRate(userID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.accounts.ApplyTransaction(tx, from, transaction, rate); err != nil {
			return err
		}
		return s.accounts.ApplyTransaction(tx, to, transaction, rate)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// applyFilter narrows a transaction query with the optional filters.
func applyFilter(query *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	return query
}

// GetUserTransactions returns a paginated list of the user's transactions,
// newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := applyFilter(s.db.Model(&models.Transaction{}).Where("user_id = ?", userID), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Account").
		Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountTransactions returns the transactions touching one account,
// including transfers into it.
func (s *transactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := s.accounts.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := applyFilter(s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND (account_id = ? OR to_account_id = ?)", userID, accountID, accountID), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Account").
		Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction by ID if it belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Account").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction removes a transaction and rolls its effect back out of
// the affected account balances.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	rate, err := s.settings.GetExchangeRate(userID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		account, err := s.accounts.GetAccountByID(userID, transaction.AccountID)
		if err != nil {
			return err
		}
		if err := s.accounts.ReverseTransaction(tx, account, transaction, rate); err != nil {
			return err
		}

		if transaction.Type == models.TransactionTypeTransfer && transaction.ToAccountID != nil {
			dest, err := s.accounts.GetAccountByID(userID, *transaction.ToAccountID)
			if err != nil {
				return err
			}
			if err := s.accounts.ReverseTransaction(tx, dest, transaction, rate); err != nil {
				return err
			}
		}

		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
