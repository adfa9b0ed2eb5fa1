package memory

import (
	"context"
	"encoding/json"

	"github.com/dealerbook/dealerbook/internal/domain/transaction"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/types"
)

type transactionRepository struct {
	store  *Store
	logger *logger.Logger
}

// NewTransactionRepository creates a person transaction repository backed by store
func NewTransactionRepository(store *Store, logger *logger.Logger) transaction.Repository {
	return &transactionRepository{store: store, logger: logger}
}

func (r *transactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	t.Version = 1
	if err := r.store.put(ctx, TableTransactions, t.ID, 0, t); err != nil {
		t.Version = 0
		return err
	}
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, id string) (*transaction.Transaction, error) {
	var t transaction.Transaction
	if err := r.store.get(ctx, TableTransactions, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepository) List(ctx context.Context, filter *types.TransactionFilter) ([]*transaction.Transaction, error) {
	var txns []*transaction.Transaction
	err := r.store.scan(TableTransactions, func(key string, payload []byte) error {
		var t transaction.Transaction
		err := json.Unmarshal(payload, &t)
		if err == nil {
			err = t.Validate()
		}
		if err != nil {
			if filter.IsLenient() {
				r.logger.Warnw("skipping malformed transaction record",
					"transaction_id", key,
					"error", err,
				)
				return nil
			}
			return ierr.WithError(err).
				WithHintf("Stored transaction %s is malformed", key).
				Mark(ierr.ErrDatabase)
		}

		if filter.Matches(t.PersonRef, t.Type, t.Date) {
			txns = append(txns, &t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, t *transaction.Transaction) error {
	expected := t.Version
	t.Version = expected + 1
	if err := r.store.put(ctx, TableTransactions, t.ID, expected, t); err != nil {
		t.Version = expected
		return err
	}
	return nil
}
