package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"finanza/internal/handlers"
	"finanza/internal/logger"
	"finanza/internal/middleware"
	"finanza/internal/models"
	"finanza/internal/services"
	"finanza/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Account{},
		&models.Transaction{},
		&models.Investment{},
		&models.Budget{},
		&models.Category{},
		&models.Setting{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	categoryService := services.NewCategoryService(db)
	userService := services.NewUserService(db, categoryService)
	accountService := services.NewAccountService(db)
	settingService := services.NewSettingService(db)
	transactionService := services.NewTransactionService(db, accountService, settingService)
	investmentService := services.NewInvestmentService(db)
	budgetService := services.NewBudgetService(db, settingService)
	dashboardService := services.NewDashboardService(db, settingService, budgetService)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, settingService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	settingHandler := handlers.NewSettingHandler(settingService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.POST("/:id/recalculate", accountHandler.RecalculateBalance)
	accounts.GET("/:id/transactions", transactionHandler.GetAccountTransactions)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/transfer", transactionHandler.CreateTransfer)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.CreateInvestment)
	investments.GET("", investmentHandler.GetInvestments)
	investments.PUT("/:id/price", investmentHandler.UpdatePrice)
	investments.DELETE("/:id", investmentHandler.DeleteInvestment)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.UpsertBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/tracking", budgetHandler.GetTracking)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	settings := protected.Group("/settings")
	settings.GET("/exchange-rate", settingHandler.GetExchangeRate)
	settings.PUT("/exchange-rate", settingHandler.UpdateExchangeRate)

	protected.GET("/dashboard", dashboardHandler.GetSummary)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// createAccount creates an account over HTTP and returns its ID.
func (app *testApp) createAccount(t *testing.T, token, name, currency string, balance float64) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"type":"checking","currency":%q,"initial_balance":"%g"}`, name, currency, balance)
	rec := app.request("POST", "/api/v1/accounts", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	account := result["account"].(map[string]interface{})
	return account["id"].(string)
}
