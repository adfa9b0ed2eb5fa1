package testutil

import (
	"context"
	"time"

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
	"github.com/dealerbook/dealerbook/internal/repository/memory"
	"github.com/dealerbook/dealerbook/internal/sentry"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/dealerbook/dealerbook/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	SequenceRepo    sequence.Repository
	CapitalRepo     capital.Repository
	TransactionRepo transaction.Repository
	InventoryRepo   inventory.Repository
	PurchaseRepo    purchase.Repository
	SaleRepo        sale.Repository
	PersonRepo      person.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memory.Store
	stores Stores
	pubsub *InMemoryPubSub
	cache  cache.Cache
	sentry *sentry.Service
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	// Initialize validator
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelInfo
	s.logger = logger.NewNopLogger()
	s.sentry = sentry.NewSentryService(s.config, s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.store = memory.NewStore(s.logger)
	s.stores = Stores{
		SequenceRepo:    memory.NewSequenceRepository(s.store, s.logger),
		CapitalRepo:     memory.NewCapitalRepository(s.store, s.logger),
		TransactionRepo: memory.NewTransactionRepository(s.store, s.logger),
		InventoryRepo:   memory.NewInventoryRepository(s.store, s.logger),
		PurchaseRepo:    memory.NewPurchaseRepository(s.store, s.logger),
		SaleRepo:        memory.NewSaleRepository(s.store, s.logger),
		PersonRepo:      memory.NewPersonRepository(s.store, s.logger),
	}
	s.pubsub = NewInMemoryPubSub()
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.store.Clear()
	s.pubsub.ClearMessages()
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// SetStores replaces repositories, typically with failure-injecting wrappers
func (s *BaseServiceTestSuite) SetStores(stores Stores) {
	s.stores = stores
}

// GetMemoryStore returns the backing in-memory store
func (s *BaseServiceTestSuite) GetMemoryStore() *memory.Store {
	return s.store
}

// GetDB returns the commit primitive used by services
func (s *BaseServiceTestSuite) GetDB() database.IClient {
	return s.store
}

// GetPubSub returns the recording change notification pubsub
func (s *BaseServiceTestSuite) GetPubSub() *InMemoryPubSub {
	return s.pubsub
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetSentry returns a disabled sentry service
func (s *BaseServiceTestSuite) GetSentry() *sentry.Service {
	return s.sentry
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
