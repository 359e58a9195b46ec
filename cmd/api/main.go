package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"finanza/internal/config"
	"finanza/internal/database"
	"finanza/internal/handlers"
	"finanza/internal/logger"
	"finanza/internal/middleware"
	"finanza/internal/services"
	"finanza/internal/validator"
)

// @title           Finanza API
// @version         1.0
// @description     Finanza is a personal multi-currency finance tracker: accounts in USD and VES, investments, monthly budgets with carry-forward, and a net worth dashboard.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	categoryService := services.NewCategoryService(db)
	userService := services.NewUserService(db, categoryService)
	accountService := services.NewAccountService(db)
	settingService := services.NewSettingService(db)
	transactionService := services.NewTransactionService(db, accountService, settingService)
	investmentService := services.NewInvestmentService(db)
	budgetService := services.NewBudgetService(db, settingService)
	dashboardService := services.NewDashboardService(db, settingService, budgetService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, settingService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	settingHandler := handlers.NewSettingHandler(settingService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.POST("/:id/recalculate", accountHandler.RecalculateBalance)
	accounts.GET("/:id/transactions", transactionHandler.GetAccountTransactions)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/transfer", transactionHandler.CreateTransfer)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Investment routes
	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.CreateInvestment)
	investments.GET("", investmentHandler.GetInvestments)
	investments.PUT("/:id/price", investmentHandler.UpdatePrice)
	investments.DELETE("/:id", investmentHandler.DeleteInvestment)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.UpsertBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/tracking", budgetHandler.GetTracking)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Settings routes
	settings := protected.Group("/settings")
	settings.GET("/exchange-rate", settingHandler.GetExchangeRate)
	settings.PUT("/exchange-rate", settingHandler.UpdateExchangeRate)

	// Dashboard route
	protected.GET("/dashboard", dashboardHandler.GetSummary)

	log.Infof("Starting Finanza backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
