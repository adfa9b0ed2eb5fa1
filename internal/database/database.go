package database

import (
	"context"
	"fmt"

	"github.com/dealerbook/dealerbook/internal/config"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

func init() {
	// modernc registers itself as "sqlite" which sqlx does not know about
	sqlx.BindDriver(driverSQLite, sqlx.QUESTION)
}

// IClient is the commit primitive shared by the SQL and in-memory stores
type IClient interface {
	// WithTx runs fn inside one all-or-nothing unit. Calls nested in an
	// existing unit join it.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Ping reports whether the store is reachable
	Ping(ctx context.Context) error
}

// DB wraps sqlx.DB to provide transaction management
type DB struct {
	*sqlx.DB
	logger *logger.Logger
	driver types.DatabaseDriver
}

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx
type Querier interface {
	sqlx.ExtContext
}

// NewDB opens the configured SQL store
func NewDB(cfg *config.Configuration, log *logger.Logger) (*DB, error) {
	switch cfg.Database.Driver {
	case types.DatabaseDriverPostgres:
		return Open(driverPostgres, cfg.Database.GetDSN(), cfg.Database, log)
	case types.DatabaseDriverSQLite:
		return Open(driverSQLite, sqliteDSN(cfg.Database.SQLitePath), cfg.Database, log)
	default:
		return nil, ierr.NewErrorf("unsupported sql driver %q", cfg.Database.Driver).
			WithHint("database.driver must be postgres or sqlite for a SQL store").
			Mark(ierr.ErrSystem)
	}
}

// Open connects to dsn with the given database/sql driver name
func Open(driverName, dsn string, cfg config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	db, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Could not connect to the %s store", driverName).
			Mark(ierr.ErrStoreUnavailable)
	}

	driver := types.DatabaseDriverPostgres
	if driverName == driverSQLite {
		driver = types.DatabaseDriverSQLite
		// one writer at a time; in-memory databases also vanish per connection
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	log.Infow("connected to database", "driver", driverName)

	return &DB{DB: db, logger: log, driver: driver}, nil
}

// OpenSQLiteMemory opens a private in-memory SQLite database with the schema applied
func OpenSQLiteMemory(ctx context.Context, log *logger.Logger) (*DB, error) {
	db, err := Open(driverSQLite, ":memory:", config.DatabaseConfig{}, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
}

// Driver returns the dialect of the connection
func (db *DB) Driver() types.DatabaseDriver {
	return db.driver
}

// Close closes the database connection
func (db *DB) Close() {
	if err := db.DB.Close(); err != nil {
		db.logger.Errorw("error closing database", "error", err)
	}
}

// Ping checks the connection
func (db *DB) Ping(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return ClassifyError(err, "ping")
	}
	return nil
}

// GetQuerier returns either the transaction from context or the base DB
func (db *DB) GetQuerier(ctx context.Context) *TracedQuerier {
	if tx, ok := GetTx(ctx); ok {
		return NewTracedQuerier(tx.Tx, db.logger, tx.ID)
	}
	return NewTracedQuerier(db.DB, db.logger, "")
}
