package testutil

import (
	"context"
	"sync/atomic"

	"github.com/dealerbook/dealerbook/internal/domain/sale"
	"github.com/dealerbook/dealerbook/internal/domain/transaction"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
)

// FailingTransactionRepository wraps a transaction repository and fails
// Create after the configured number of successful calls. A negative
// budget never fails.
type FailingTransactionRepository struct {
	transaction.Repository
	budget atomic.Int64
}

func NewFailingTransactionRepository(repo transaction.Repository) *FailingTransactionRepository {
	r := &FailingTransactionRepository{Repository: repo}
	r.budget.Store(-1)
	return r
}

// FailAfter lets n more creates through before failing
func (r *FailingTransactionRepository) FailAfter(n int64) {
	r.budget.Store(n)
}

func (r *FailingTransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	if r.budget.Load() >= 0 && r.budget.Add(-1) < 0 {
		return ierr.NewError("injected transaction write failure").
			WithHint("The store is unavailable").
			Mark(ierr.ErrStoreUnavailable)
	}
	return r.Repository.Create(ctx, t)
}

// ConflictingSaleRepository returns a version conflict from the first n
// updates, simulating a concurrent writer.
type ConflictingSaleRepository struct {
	sale.Repository
	remaining atomic.Int64
}

func NewConflictingSaleRepository(repo sale.Repository, n int64) *ConflictingSaleRepository {
	r := &ConflictingSaleRepository{Repository: repo}
	r.remaining.Store(n)
	return r
}

func (r *ConflictingSaleRepository) Update(ctx context.Context, s *sale.Sale) error {
	if r.remaining.Add(-1) >= 0 {
		return ierr.NewErrorf("sale %s was modified concurrently", s.ID).
			WithHint("Retry the operation").
			Mark(ierr.ErrVersionConflict)
	}
	return r.Repository.Update(ctx, s)
}
