package service

import (
	"github.com/dealerbook/dealerbook/internal/cache"
	"github.com/dealerbook/dealerbook/internal/config"
	"github.com/dealerbook/dealerbook/internal/database"
	"github.com/dealerbook/dealerbook/internal/domain/capital"
	"github.com/dealerbook/dealerbook/internal/domain/inventory"
	"github.com/dealerbook/dealerbook/internal/domain/person"
	"github.com/dealerbook/dealerbook/internal/domain/purchase"
	"github.com/dealerbook/dealerbook/internal/domain/sale"
	"github.com/dealerbook/dealerbook/internal/domain/sequence"
	"github.com/dealerbook/dealerbook/internal/domain/transaction"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/pubsub"
	"github.com/dealerbook/dealerbook/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     database.IClient

	// Repositories
	SequenceRepo    sequence.Repository
	CapitalRepo     capital.Repository
	TransactionRepo transaction.Repository
	InventoryRepo   inventory.Repository
	PurchaseRepo    purchase.Repository
	SaleRepo        sale.Repository
	PersonRepo      person.Repository

	Cache     cache.Cache
	Publisher pubsub.Publisher
	Sentry    *sentry.Service
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db database.IClient,
	sequenceRepo sequence.Repository,
	capitalRepo capital.Repository,
	transactionRepo transaction.Repository,
	inventoryRepo inventory.Repository,
	purchaseRepo purchase.Repository,
	saleRepo sale.Repository,
	personRepo person.Repository,
	cache cache.Cache,
	publisher pubsub.Publisher,
	sentryService *sentry.Service,
) ServiceParams {
	return ServiceParams{
		Logger:          logger,
		Config:          config,
		DB:              db,
		SequenceRepo:    sequenceRepo,
		CapitalRepo:     capitalRepo,
		TransactionRepo: transactionRepo,
		InventoryRepo:   inventoryRepo,
		PurchaseRepo:    purchaseRepo,
		SaleRepo:        saleRepo,
		PersonRepo:      personRepo,
		Cache:           cache,
		Publisher:       publisher,
		Sentry:          sentryService,
	}
}
