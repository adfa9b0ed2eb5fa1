package sqlstore

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/database"
	"github.com/dealerbook/dealerbook/internal/domain/capital"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/types"
)

type capitalRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewCapitalRepository creates a new instance of the capital account repository
func NewCapitalRepository(db *database.DB, logger *logger.Logger) capital.Repository {
	return &capitalRepository{db: db, logger: logger}
}

const accountColumns = `name, balance, version, created_at, updated_at, created_by, updated_by`

func (r *capitalRepository) GetAccount(ctx context.Context, name types.AccountName) (*capital.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM capital_accounts WHERE name = :name`

	var a capital.Account
	err := r.db.GetQuerier(ctx).NamedGetContext(ctx, &a, query, map[string]interface{}{"name": name})
	if err != nil {
		return nil, getError(err, "capital_accounts", string(name), "get capital account")
	}
	return &a, nil
}

func (r *capitalRepository) ListAccounts(ctx context.Context) ([]*capital.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM capital_accounts ORDER BY name`

	var accounts []*capital.Account
	if err := r.db.GetQuerier(ctx).NamedSelectContext(ctx, &accounts, query, nil); err != nil {
		return nil, database.ClassifyError(err, "list capital accounts")
	}
	return accounts, nil
}

// SaveAccount upserts the account and appends its pending entries. Both
// statements run on the caller's transaction when there is one.
func (r *capitalRepository) SaveAccount(ctx context.Context, a *capital.Account) error {
	return r.db.WithTx(ctx, func(ctx context.Context) error {
		q := r.db.GetQuerier(ctx)

		r.logger.Debugw("saving capital account",
			"account", a.Name,
			"balance", a.Balance.String(),
			"version", a.Version,
			"entries", len(a.PendingEntries()),
		)

		if a.IsNew() {
			query := `
				INSERT INTO capital_accounts (` + accountColumns + `)
				VALUES (:name, :balance, 1, :created_at, :updated_at, :created_by, :updated_by)`

			if _, err := q.NamedExecContext(ctx, query, a); err != nil {
				return database.ClassifyError(err, "insert capital account")
			}
		} else {
			query := `
				UPDATE capital_accounts
				SET balance = :balance, version = version + 1, updated_at = :updated_at, updated_by = :updated_by
				WHERE name = :name AND version = :version`

			result, err := q.NamedExecContext(ctx, query, a)
			if err != nil {
				return database.ClassifyError(err, "update capital account")
			}
			if err := checkVersioned(result, "capital_accounts", string(a.Name), a.Version); err != nil {
				return err
			}
		}

		entryQuery := `
			INSERT INTO capital_entries (
				id, account_name, timestamp, delta, balance_after, order_number,
				reference_type, reference_id, description, reason, created_at, created_by
			) VALUES (
				:id, :account_name, :timestamp, :delta, :balance_after, :order_number,
				:reference_type, :reference_id, :description, :reason, :created_at, :created_by
			)`

		for _, e := range a.PendingEntries() {
			if _, err := q.NamedExecContext(ctx, entryQuery, e); err != nil {
				return database.ClassifyError(err, "insert capital entry")
			}
		}

		a.Version++
		a.ClearPending()
		return nil
	})
}

func (r *capitalRepository) ListEntries(ctx context.Context, name types.AccountName, limit int) ([]*capital.Entry, error) {
	query := `
		SELECT id, account_name, timestamp, delta, balance_after, order_number,
			reference_type, reference_id, description, reason, created_at, created_by
		FROM capital_entries
		WHERE account_name = :account_name
		ORDER BY timestamp DESC, id DESC`

	params := map[string]interface{}{"account_name": name}
	if limit > 0 {
		query += ` LIMIT :limit`
		params["limit"] = limit
	}

	var entries []*capital.Entry
	if err := r.db.GetQuerier(ctx).NamedSelectContext(ctx, &entries, query, params); err != nil {
		return nil, database.ClassifyError(err, "list capital entries")
	}
	return entries, nil
}
