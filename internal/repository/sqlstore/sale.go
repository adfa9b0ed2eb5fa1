package sqlstore

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/database"
	"github.com/dealerbook/dealerbook/internal/domain/sale"
	"github.com/dealerbook/dealerbook/internal/logger"
)

type saleRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewSaleRepository creates a new instance of the sale repository
func NewSaleRepository(db *database.DB, logger *logger.Logger) sale.Repository {
	return &saleRepository{db: db, logger: logger}
}

const saleColumns = `id, order_number, customer_ref, customer_name, vehicle_ref, purchase_type,
	total_amount, down_cash_amount, down_bank_amount, schedule, sale_date, status,
	document_refs, version, created_at, updated_at, created_by, updated_by`

func (r *saleRepository) Create(ctx context.Context, s *sale.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES (
			:id, :order_number, :customer_ref, :customer_name, :vehicle_ref, :purchase_type,
			:total_amount, :down_cash_amount, :down_bank_amount, :schedule, :sale_date, :status,
			:document_refs, 1, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating sale",
		"sale_id", s.ID,
		"order_number", s.OrderNumber,
		"purchase_type", s.PurchaseType,
	)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, s); err != nil {
		return database.ClassifyError(err, "insert sale")
	}
	s.Version = 1
	return nil
}

func (r *saleRepository) Get(ctx context.Context, id string) (*sale.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = :id`

	var s sale.Sale
	err := r.db.GetQuerier(ctx).NamedGetContext(ctx, &s, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, getError(err, "sales", id, "get sale")
	}
	return &s, nil
}

func (r *saleRepository) Update(ctx context.Context, s *sale.Sale) error {
	query := `
		UPDATE sales
		SET schedule = :schedule, status = :status, version = version + 1,
			updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id AND version = :version`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, s)
	if err != nil {
		return database.ClassifyError(err, "update sale")
	}
	if err := checkVersioned(result, "sales", s.ID, s.Version); err != nil {
		return err
	}
	s.Version++
	return nil
}
