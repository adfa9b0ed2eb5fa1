package memory

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/domain/purchase"
	"github.com/dealerbook/dealerbook/internal/logger"
)

type purchaseRepository struct {
	store  *Store
	logger *logger.Logger
}

// NewPurchaseRepository creates a purchase repository backed by store
func NewPurchaseRepository(store *Store, logger *logger.Logger) purchase.Repository {
	return &purchaseRepository{store: store, logger: logger}
}

func (r *purchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	return r.store.put(ctx, TablePurchases, p.ID, 0, p)
}

func (r *purchaseRepository) Get(ctx context.Context, id string) (*purchase.Purchase, error) {
	var p purchase.Purchase
	if err := r.store.get(ctx, TablePurchases, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
