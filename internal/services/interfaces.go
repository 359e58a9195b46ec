package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finanza/internal/ledger"
	"finanza/internal/models"
	"finanza/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID, name string, accountType models.AccountType, currency string, initialBalance decimal.Decimal) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID, name string) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
	ApplyTransaction(tx *gorm.DB, account *models.Account, transaction *models.Transaction, rate decimal.Decimal) error
	ReverseTransaction(tx *gorm.DB, account *models.Account, transaction *models.Transaction, rate decimal.Decimal) error
	RecalculateBalance(userID, accountID string, rate decimal.Decimal) (*models.Account, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
	Category *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, accountID, rawType string, amount decimal.Decimal, currency, category, description string, date time.Time, direction *models.AdjustmentDirection) (*models.Transaction, error)
	CreateTransfer(userID, fromAccountID, toAccountID string, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// InvestmentServicer defines the contract for investment-related business logic.
type InvestmentServicer interface {
	CreateInvestment(userID, symbol, name string, quantity, buyPrice, buyCommission decimal.Decimal) (*models.Investment, error)
	GetUserInvestments(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error)
	GetInvestmentByID(userID, investmentID string) (*models.Investment, error)
	UpdatePrice(userID, investmentID string, currentPrice decimal.Decimal) (*models.Investment, error)
	DeleteInvestment(userID, investmentID string) error
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	UpsertBudget(userID, category, month, currency string, limit decimal.Decimal) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	Tracking(userID, month string) ([]ledger.BudgetRow, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType) (*models.Category, error)
	GetUserCategories(userID string, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	DeleteCategory(userID, categoryID string) error
	SeedDefaults(userID string) error
}

// SettingServicer defines the contract for per-user settings.
type SettingServicer interface {
	GetExchangeRate(userID string) (decimal.Decimal, error)
	SetExchangeRate(userID string, rate float64) (*models.Setting, error)
}

// Composition is the cash-versus-invested breakdown of the net worth.
type Composition struct {
	Cash     decimal.Decimal `json:"cash"`
	Invested decimal.Decimal `json:"invested"`
}

// DashboardSummary is the immutable view model handed to the presentation
// layer: every figure is expressed in the primary currency except the
// budget rows, which stay in their own declared currency.
type DashboardSummary struct {
	Month        string             `json:"month"`
	ExchangeRate decimal.Decimal    `json:"exchange_rate"`
	NetWorth     decimal.Decimal    `json:"net_worth"`
	Income       decimal.Decimal    `json:"income"`
	Expense      decimal.Decimal    `json:"expense"`
	Composition  Composition        `json:"composition"`
	Budgets      []ledger.BudgetRow `json:"budgets"`
}

// DashboardServicer defines the contract for the dashboard aggregation.
type DashboardServicer interface {
	GetSummary(userID, month string) (*DashboardSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
