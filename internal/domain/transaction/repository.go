package transaction

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/types"
)

// Repository persists person transactions. There is no delete; corrections
// are recorded as offsetting transactions.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	Get(ctx context.Context, id string) (*Transaction, error)
	// List returns matching transactions in no particular order.
	// With a lenient filter, records that fail to decode are skipped.
	List(ctx context.Context, filter *types.TransactionFilter) ([]*Transaction, error)
	// UpdateStatus persists t.Status when the stored version matches t.Version
	UpdateStatus(ctx context.Context, t *Transaction) error
}
