package api

import (
	v1 "github.com/dealerbook/dealerbook/internal/api/v1"
	"github.com/dealerbook/dealerbook/internal/config"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/metrics"
	"github.com/dealerbook/dealerbook/internal/rest/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Health      *v1.HealthHandler
	Order       *v1.OrderHandler
	Purchase    *v1.PurchaseHandler
	Sale        *v1.SaleHandler
	Transfer    *v1.TransferHandler
	Account     *v1.AccountHandler
	Transaction *v1.TransactionHandler
	Inventory   *v1.InventoryHandler
	Person      *v1.PersonHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.SentryMiddleware(cfg),
		middleware.RequestIDMiddleware,
		middleware.SentryScope,
		middleware.RequestLogger(log),
		middleware.ErrorHandler(),
	)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	router.GET("/health", handlers.Health.Health)

	orders := router.Group("/orders")
	{
		orders.GET("/next-number", handlers.Order.GetNextOrderNumber)
	}

	purchases := router.Group("/purchases")
	{
		purchases.POST("", handlers.Purchase.RecordPurchase)
	}

	sales := router.Group("/sales")
	{
		sales.POST("", handlers.Sale.RecordSale)
		sales.GET("/:id", handlers.Sale.GetSale)
		sales.POST("/:id/emi-payments", handlers.Sale.RecordEmiPayment)
	}

	transfers := router.Group("/transfers")
	{
		transfers.POST("", handlers.Transfer.TransferFunds)
	}

	accounts := router.Group("/accounts")
	{
		accounts.GET("", handlers.Account.ListAccounts)
		accounts.GET("/:name/entries", handlers.Account.ListEntries)
		accounts.PUT("/:name/balance", handlers.Account.SetAccountBalance)
	}

	transactions := router.Group("/transactions")
	{
		transactions.GET("", handlers.Transaction.QueryTransactions)
		transactions.GET("/:id", handlers.Transaction.GetTransaction)
		transactions.PUT("/:id/status", handlers.Transaction.UpdateStatus)
	}

	inventory := router.Group("/inventory")
	{
		inventory.GET("/summaries/:id", handlers.Inventory.GetSummary)
	}

	persons := router.Group("/persons")
	{
		persons.POST("", handlers.Person.CreatePerson)
		persons.GET("/:id", handlers.Person.GetPerson)
	}
}
