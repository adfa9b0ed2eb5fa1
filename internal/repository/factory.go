package repository

import (
	"context"

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
	"github.com/dealerbook/dealerbook/internal/repository/sqlstore"
	"github.com/dealerbook/dealerbook/internal/types"
	"go.uber.org/fx"
)

// Backend is the store selected by database.driver. Exactly one of SQL and
// Memory is set.
type Backend struct {
	SQL    *database.DB
	Memory *memory.Store
}

// NewBackend opens the configured store and ties its lifetime to the app
func NewBackend(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) (*Backend, error) {
	if cfg.Database.Driver == types.DatabaseDriverMemory {
		log.Warnw("using in-memory store, data is lost on restart")
		return &Backend{Memory: memory.NewStore(log)}, nil
	}

	db, err := database.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.Database.AutoMigrate {
				return nil
			}
			return db.Migrate(ctx)
		},
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})

	return &Backend{SQL: db}, nil
}

// NewMemoryBackend wraps an existing in-memory store, used by tests
func NewMemoryBackend(store *memory.Store) *Backend {
	return &Backend{Memory: store}
}

// NewSQLBackend wraps an open SQL database, used by tests and tools
func NewSQLBackend(db *database.DB) *Backend {
	return &Backend{SQL: db}
}

// Client returns the commit primitive of the backend
func (b *Backend) Client() database.IClient {
	if b.SQL != nil {
		return b.SQL
	}
	return b.Memory
}

func NewClient(b *Backend) database.IClient {
	return b.Client()
}

func NewSequenceRepository(b *Backend, logger *logger.Logger) sequence.Repository {
	if b.SQL != nil {
		return sqlstore.NewSequenceRepository(b.SQL, logger)
	}
	return memory.NewSequenceRepository(b.Memory, logger)
}

func NewCapitalRepository(b *Backend, logger *logger.Logger) capital.Repository {
	if b.SQL != nil {
		return sqlstore.NewCapitalRepository(b.SQL, logger)
	}
	return memory.NewCapitalRepository(b.Memory, logger)
}

func NewTransactionRepository(b *Backend, logger *logger.Logger) transaction.Repository {
	if b.SQL != nil {
		return sqlstore.NewTransactionRepository(b.SQL, logger)
	}
	return memory.NewTransactionRepository(b.Memory, logger)
}

func NewInventoryRepository(b *Backend, logger *logger.Logger) inventory.Repository {
	if b.SQL != nil {
		return sqlstore.NewInventoryRepository(b.SQL, logger)
	}
	return memory.NewInventoryRepository(b.Memory, logger)
}

func NewPurchaseRepository(b *Backend, logger *logger.Logger) purchase.Repository {
	if b.SQL != nil {
		return sqlstore.NewPurchaseRepository(b.SQL, logger)
	}
	return memory.NewPurchaseRepository(b.Memory, logger)
}

func NewSaleRepository(b *Backend, logger *logger.Logger) sale.Repository {
	if b.SQL != nil {
		return sqlstore.NewSaleRepository(b.SQL, logger)
	}
	return memory.NewSaleRepository(b.Memory, logger)
}

func NewPersonRepository(b *Backend, logger *logger.Logger) person.Repository {
	if b.SQL != nil {
		return sqlstore.NewPersonRepository(b.SQL, logger)
	}
	return memory.NewPersonRepository(b.Memory, logger)
}
