package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"paydown/internal/cache"
	"paydown/internal/config"
	"paydown/internal/database"
	"paydown/internal/handlers"
	"paydown/internal/logger"
	"paydown/internal/middleware"
	"paydown/internal/services"
	"paydown/internal/validator"

	_ "paydown/internal/docs" // Import swagger docs
)

// @title           Paydown API
// @version         1.0
// @description     Paydown is a debt payoff and credit card payment reconciliation engine for envelope budgeting: it classifies credit card payments, automates the matching budget transfers, and generates and tracks debt payoff plans.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Redis is optional: without REDIS_ADDR the comparison cache falls back
	// to an in-process map.
	var planCache cache.Cache
	if appConfig.RedisAddr != "" {
		planCache = cache.NewRedisCache(appConfig.RedisAddr, appConfig.RedisPassword)
		log.Infof("Using redis cache at %s", appConfig.RedisAddr)
	} else {
		planCache = cache.NewMemoryCache()
		log.Info("REDIS_ADDR not set, using in-memory cache")
	}

	// Initialize services
	db := dbManager.DB()
	classifier := services.NewKeywordClassifier()
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	budgetService := services.NewBudgetService(db)
	transactionService := services.NewTransactionService(db, accountService, budgetService)
	transferService := services.NewTransferService(db, accountService, budgetService, transactionService, classifier)
	planService := services.NewPlanService(db, accountService, transactionService, classifier, planCache)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	transactionHandler := handlers.NewTransactionHandler(accountService, transactionService, transferService, auditService)
	debtPlanHandler := handlers.NewDebtPlanHandler(planService, auditService)
	transferHandler := handlers.NewTransferHandler(transferService, auditService)

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
	auth.POST("/refresh", authHandler.RefreshToken)

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
	accounts.GET("/:id/transactions", transactionHandler.GetAccountTransactions)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Debt plan routes
	debtPlans := protected.Group("/debt-plans")
	debtPlans.GET("/active", debtPlanHandler.GetActivePlan)
	debtPlans.POST("", debtPlanHandler.CreatePlan)
	debtPlans.GET("/compare", debtPlanHandler.CompareStrategies)
	debtPlans.DELETE("/:id", debtPlanHandler.DeletePlan)
	debtPlans.POST("/:id/payments", debtPlanHandler.RecordPayment)

	// Transfer routes
	transfers := protected.Group("/transfers")
	transfers.POST("/credit-card", transferHandler.CreateCreditCardPayment)
	transfers.GET("", transferHandler.GetTransfers)

	log.Infof("Starting Paydown backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
