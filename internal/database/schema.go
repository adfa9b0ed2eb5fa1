package database

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/types"
)

// Migrations returns the schema statements for the given dialect.
// Each string is a single statement; sqlite executes one at a time.
func Migrations(driver types.DatabaseDriver) []string {
	if driver == types.DatabaseDriverSQLite {
		return sqliteMigrations()
	}
	return postgresMigrations()
}

// Migrate applies the schema. Every statement is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	q := db.GetQuerier(ctx)
	for _, stmt := range Migrations(db.driver) {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return ClassifyError(err, "migrate")
		}
	}
	db.logger.Infow("schema migrated", "driver", db.driver)
	return nil
}

func postgresMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS sequence_counters (
			id         VARCHAR(50) PRIMARY KEY,
			value      BIGINT NOT NULL DEFAULT 0 CHECK (value >= 0),
			version    BIGINT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS capital_accounts (
			name       VARCHAR(20) PRIMARY KEY,
			balance    NUMERIC NOT NULL DEFAULT 0,
			version    BIGINT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			created_by VARCHAR(50) NOT NULL DEFAULT '',
			updated_by VARCHAR(50) NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS capital_entries (
			id             VARCHAR(50) PRIMARY KEY,
			account_name   VARCHAR(20) NOT NULL REFERENCES capital_accounts(name),
			timestamp      TIMESTAMPTZ NOT NULL,
			delta          NUMERIC NOT NULL,
			balance_after  NUMERIC NOT NULL,
			order_number   BIGINT,
			reference_type VARCHAR(20),
			reference_id   VARCHAR(50),
			description    TEXT NOT NULL DEFAULT '',
			reason         TEXT,
			created_at     TIMESTAMPTZ NOT NULL,
			created_by     VARCHAR(50) NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_capital_entries_account ON capital_entries(account_name, timestamp)`,

		`CREATE TABLE IF NOT EXISTS persons (
			id         VARCHAR(50) PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			kind       VARCHAR(20) NOT NULL,
			phone      VARCHAR(50) NOT NULL DEFAULT '',
			balance    NUMERIC NOT NULL DEFAULT 0,
			version    BIGINT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			created_by VARCHAR(50) NOT NULL DEFAULT '',
			updated_by VARCHAR(50) NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS person_transactions (
			id             VARCHAR(50) PRIMARY KEY,
			type           VARCHAR(20) NOT NULL,
			person_ref     VARCHAR(50) NOT NULL DEFAULT '',
			person_name    VARCHAR(255) NOT NULL DEFAULT '',
			amount         NUMERIC NOT NULL,
			payment_method VARCHAR(20) NOT NULL,
			cash_amount    NUMERIC NOT NULL DEFAULT 0,
			bank_amount    NUMERIC NOT NULL DEFAULT 0,
			credit_amount  NUMERIC NOT NULL DEFAULT 0,
			date           TIMESTAMPTZ NOT NULL,
			order_number   BIGINT,
			related_ref    VARCHAR(50),
			note           TEXT NOT NULL DEFAULT '',
			status         VARCHAR(20) NOT NULL,
			version        BIGINT NOT NULL DEFAULT 1,
			created_at     TIMESTAMPTZ NOT NULL,
			updated_at     TIMESTAMPTZ NOT NULL,
			created_by     VARCHAR(50) NOT NULL DEFAULT '',
			updated_by     VARCHAR(50) NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_person_transactions_person ON person_transactions(person_ref)`,
		`CREATE INDEX IF NOT EXISTS idx_person_transactions_type ON person_transactions(type)`,
		`CREATE INDEX IF NOT EXISTS idx_person_transactions_date ON person_transactions(date)`,

		`CREATE TABLE IF NOT EXISTS inventory_summaries (
			id         VARCHAR(50) PRIMARY KEY,
			brand      VARCHAR(255) NOT NULL,
			category   VARCHAR(255) NOT NULL,
			items      JSONB NOT NULL DEFAULT '[]',
			version    BIGINT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			created_by VARCHAR(50) NOT NULL DEFAULT '',
			updated_by VARCHAR(50) NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id             VARCHAR(50) PRIMARY KEY,
			summary_id     VARCHAR(50) NOT NULL REFERENCES inventory_summaries(id),
			item_id        VARCHAR(100) NOT NULL,
			chassis_number VARCHAR(100) NOT NULL UNIQUE,
			engine_number  VARCHAR(100) NOT NULL DEFAULT '',
			color          VARCHAR(50) NOT NULL DEFAULT '',
			model_year     INTEGER NOT NULL DEFAULT 0,
			description    TEXT NOT NULL DEFAULT '',
			purchase_id    VARCHAR(50) NOT NULL,
			sale_id        VARCHAR(50),
			status         VARCHAR(20) NOT NULL,
			document_refs  JSONB NOT NULL DEFAULT '[]',
			version        BIGINT NOT NULL DEFAULT 1,
			created_at     TIMESTAMPTZ NOT NULL,
			updated_at     TIMESTAMPTZ NOT NULL,
			created_by     VARCHAR(50) NOT NULL DEFAULT '',
			updated_by     VARCHAR(50) NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS purchases (
			id             VARCHAR(50) PRIMARY KEY,
			order_number   BIGINT NOT NULL UNIQUE,
			vehicle_id     VARCHAR(50),
			middle_man_ref VARCHAR(50),
			seller_name    VARCHAR(255) NOT NULL DEFAULT '',
			total_amount   NUMERIC NOT NULL,
			cash_amount    NUMERIC NOT NULL DEFAULT 0,
			bank_amount    NUMERIC NOT NULL DEFAULT 0,
			credit_amount  NUMERIC NOT NULL DEFAULT 0,
			broker_fee     NUMERIC NOT NULL DEFAULT 0,
			purchase_date  TIMESTAMPTZ NOT NULL,
			document_refs  JSONB NOT NULL DEFAULT '[]',
			created_at     TIMESTAMPTZ NOT NULL,
			updated_at     TIMESTAMPTZ NOT NULL,
			created_by     VARCHAR(50) NOT NULL DEFAULT '',
			updated_by     VARCHAR(50) NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS sales (
			id                VARCHAR(50) PRIMARY KEY,
			order_number      BIGINT NOT NULL UNIQUE,
			customer_ref      VARCHAR(50) NOT NULL,
			customer_name     VARCHAR(255) NOT NULL DEFAULT '',
			vehicle_ref       VARCHAR(50) NOT NULL,
			purchase_type     VARCHAR(10) NOT NULL,
			total_amount      NUMERIC NOT NULL,
			down_cash_amount  NUMERIC NOT NULL DEFAULT 0,
			down_bank_amount  NUMERIC NOT NULL DEFAULT 0,
			schedule          JSONB,
			sale_date         TIMESTAMPTZ NOT NULL,
			status            VARCHAR(20) NOT NULL,
			document_refs     JSONB NOT NULL DEFAULT '[]',
			version           BIGINT NOT NULL DEFAULT 1,
			created_at        TIMESTAMPTZ NOT NULL,
			updated_at        TIMESTAMPTZ NOT NULL,
			created_by        VARCHAR(50) NOT NULL DEFAULT '',
			updated_by        VARCHAR(50) NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_customer ON sales(customer_ref)`,
	}
}

// sqlite keeps amounts as TEXT so decimals round trip exactly
func sqliteMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS sequence_counters (
			id         TEXT PRIMARY KEY,
			value      INTEGER NOT NULL DEFAULT 0 CHECK (value >= 0),
			version    INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS capital_accounts (
			name       TEXT PRIMARY KEY,
			balance    TEXT NOT NULL DEFAULT '0',
			version    INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			created_by TEXT NOT NULL DEFAULT '',
			updated_by TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS capital_entries (
			id             TEXT PRIMARY KEY,
			account_name   TEXT NOT NULL REFERENCES capital_accounts(name),
			timestamp      DATETIME NOT NULL,
			delta          TEXT NOT NULL,
			balance_after  TEXT NOT NULL,
			order_number   INTEGER,
			reference_type TEXT,
			reference_id   TEXT,
			description    TEXT NOT NULL DEFAULT '',
			reason         TEXT,
			created_at     DATETIME NOT NULL,
			created_by     TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_capital_entries_account ON capital_entries(account_name, timestamp)`,

		`CREATE TABLE IF NOT EXISTS persons (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			kind       TEXT NOT NULL,
			phone      TEXT NOT NULL DEFAULT '',
			balance    TEXT NOT NULL DEFAULT '0',
			version    INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			created_by TEXT NOT NULL DEFAULT '',
			updated_by TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS person_transactions (
			id             TEXT PRIMARY KEY,
			type           TEXT NOT NULL,
			person_ref     TEXT NOT NULL DEFAULT '',
			person_name    TEXT NOT NULL DEFAULT '',
			amount         TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			cash_amount    TEXT NOT NULL DEFAULT '0',
			bank_amount    TEXT NOT NULL DEFAULT '0',
			credit_amount  TEXT NOT NULL DEFAULT '0',
			date           DATETIME NOT NULL,
			order_number   INTEGER,
			related_ref    TEXT,
			note           TEXT NOT NULL DEFAULT '',
			status         TEXT NOT NULL,
			version        INTEGER NOT NULL DEFAULT 1,
			created_at     DATETIME NOT NULL,
			updated_at     DATETIME NOT NULL,
			created_by     TEXT NOT NULL DEFAULT '',
			updated_by     TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_person_transactions_person ON person_transactions(person_ref)`,
		`CREATE INDEX IF NOT EXISTS idx_person_transactions_type ON person_transactions(type)`,

		`CREATE TABLE IF NOT EXISTS inventory_summaries (
			id         TEXT PRIMARY KEY,
			brand      TEXT NOT NULL,
			category   TEXT NOT NULL,
			items      TEXT NOT NULL DEFAULT '[]',
			version    INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			created_by TEXT NOT NULL DEFAULT '',
			updated_by TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id             TEXT PRIMARY KEY,
			summary_id     TEXT NOT NULL REFERENCES inventory_summaries(id),
			item_id        TEXT NOT NULL,
			chassis_number TEXT NOT NULL UNIQUE,
			engine_number  TEXT NOT NULL DEFAULT '',
			color          TEXT NOT NULL DEFAULT '',
			model_year     INTEGER NOT NULL DEFAULT 0,
			description    TEXT NOT NULL DEFAULT '',
			purchase_id    TEXT NOT NULL,
			sale_id        TEXT,
			status         TEXT NOT NULL,
			document_refs  TEXT NOT NULL DEFAULT '[]',
			version        INTEGER NOT NULL DEFAULT 1,
			created_at     DATETIME NOT NULL,
			updated_at     DATETIME NOT NULL,
			created_by     TEXT NOT NULL DEFAULT '',
			updated_by     TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS purchases (
			id             TEXT PRIMARY KEY,
			order_number   INTEGER NOT NULL UNIQUE,
			vehicle_id     TEXT,
			middle_man_ref TEXT,
			seller_name    TEXT NOT NULL DEFAULT '',
			total_amount   TEXT NOT NULL,
			cash_amount    TEXT NOT NULL DEFAULT '0',
			bank_amount    TEXT NOT NULL DEFAULT '0',
			credit_amount  TEXT NOT NULL DEFAULT '0',
			broker_fee     TEXT NOT NULL DEFAULT '0',
			purchase_date  DATETIME NOT NULL,
			document_refs  TEXT NOT NULL DEFAULT '[]',
			created_at     DATETIME NOT NULL,
			updated_at     DATETIME NOT NULL,
			created_by     TEXT NOT NULL DEFAULT '',
			updated_by     TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS sales (
			id                TEXT PRIMARY KEY,
			order_number      INTEGER NOT NULL UNIQUE,
			customer_ref      TEXT NOT NULL,
			customer_name     TEXT NOT NULL DEFAULT '',
			vehicle_ref       TEXT NOT NULL,
			purchase_type     TEXT NOT NULL,
			total_amount      TEXT NOT NULL,
			down_cash_amount  TEXT NOT NULL DEFAULT '0',
			down_bank_amount  TEXT NOT NULL DEFAULT '0',
			schedule          TEXT,
			sale_date         DATETIME NOT NULL,
			status            TEXT NOT NULL,
			document_refs     TEXT NOT NULL DEFAULT '[]',
			version           INTEGER NOT NULL DEFAULT 1,
			created_at        DATETIME NOT NULL,
			updated_at        DATETIME NOT NULL,
			created_by        TEXT NOT NULL DEFAULT '',
			updated_by        TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_customer ON sales(customer_ref)`,
	}
}
