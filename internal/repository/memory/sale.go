package memory

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/domain/sale"
	"github.com/dealerbook/dealerbook/internal/logger"
)

type saleRepository struct {
	store  *Store
	logger *logger.Logger
}

// NewSaleRepository creates a sale repository backed by store
func NewSaleRepository(store *Store, logger *logger.Logger) sale.Repository {
	return &saleRepository{store: store, logger: logger}
}

func (r *saleRepository) Create(ctx context.Context, s *sale.Sale) error {
	s.Version = 1
	if err := r.store.put(ctx, TableSales, s.ID, 0, s); err != nil {
		s.Version = 0
		return err
	}
	return nil
}

func (r *saleRepository) Get(ctx context.Context, id string) (*sale.Sale, error) {
	var s sale.Sale
	if err := r.store.get(ctx, TableSales, id, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepository) Update(ctx context.Context, s *sale.Sale) error {
	expected := s.Version
	s.Version = expected + 1
	if err := r.store.put(ctx, TableSales, s.ID, expected, s); err != nil {
		s.Version = expected
		return err
	}
	return nil
}
