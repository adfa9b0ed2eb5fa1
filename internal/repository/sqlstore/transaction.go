package sqlstore

import (
	"context"
	"strings"

	"github.com/dealerbook/dealerbook/internal/database"
	"github.com/dealerbook/dealerbook/internal/domain/transaction"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/types"
)

type transactionRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewTransactionRepository creates a new instance of the person transaction repository
func NewTransactionRepository(db *database.DB, logger *logger.Logger) transaction.Repository {
	return &transactionRepository{db: db, logger: logger}
}

const transactionColumns = `id, type, person_ref, person_name, amount, payment_method,
	cash_amount, bank_amount, credit_amount, date, order_number, related_ref, note,
	status, version, created_at, updated_at, created_by, updated_by`

func (r *transactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	query := `
		INSERT INTO person_transactions (` + transactionColumns + `)
		VALUES (
			:id, :type, :person_ref, :person_name, :amount, :payment_method,
			:cash_amount, :bank_amount, :credit_amount, :date, :order_number, :related_ref, :note,
			:status, 1, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating person transaction",
		"transaction_id", t.ID,
		"type", t.Type,
		"person_ref", t.PersonRef,
		"amount", t.Amount.String(),
	)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, t); err != nil {
		return database.ClassifyError(err, "insert person transaction")
	}
	t.Version = 1
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM person_transactions WHERE id = :id`

	var t transaction.Transaction
	err := r.db.GetQuerier(ctx).NamedGetContext(ctx, &t, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, getError(err, "person_transactions", id, "get person transaction")
	}
	return &t, nil
}

// List pushes the person and type criteria down to the store; the date range
// is applied after decoding since sqlite compares datetimes as text.
func (r *transactionRepository) List(ctx context.Context, filter *types.TransactionFilter) ([]*transaction.Transaction, error) {
	var conditions []string
	params := map[string]interface{}{}
	if filter != nil && filter.PersonRef != "" {
		conditions = append(conditions, "person_ref = :person_ref")
		params["person_ref"] = filter.PersonRef
	}
	if filter != nil && filter.Type != nil {
		conditions = append(conditions, "type = :type")
		params["type"] = string(*filter.Type)
	}

	query := `SELECT ` + transactionColumns + ` FROM person_transactions`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}

	rows, err := r.db.GetQuerier(ctx).NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, database.ClassifyError(err, "list person transactions")
	}
	defer rows.Close()

	var txns []*transaction.Transaction
	for rows.Next() {
		var t transaction.Transaction
		err := rows.StructScan(&t)
		if err == nil {
			err = t.Validate()
		}
		if err != nil {
			if filter.IsLenient() {
				r.logger.Warnw("skipping malformed transaction record",
					"transaction_id", t.ID,
					"error", err,
				)
				continue
			}
			return nil, ierr.WithError(err).
				WithHint("Stored transaction is malformed").
				Mark(ierr.ErrDatabase)
		}

		if filter.Matches(t.PersonRef, t.Type, t.Date) {
			txns = append(txns, &t)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, database.ClassifyError(err, "iterate person transactions")
	}
	return txns, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, t *transaction.Transaction) error {
	query := `
		UPDATE person_transactions
		SET status = :status, version = version + 1, updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id AND version = :version`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, t)
	if err != nil {
		return database.ClassifyError(err, "update person transaction status")
	}
	if err := checkVersioned(result, "person_transactions", t.ID, t.Version); err != nil {
		return err
	}
	t.Version++
	return nil
}
