package sqlstore

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/database"
	"github.com/dealerbook/dealerbook/internal/domain/purchase"
	"github.com/dealerbook/dealerbook/internal/logger"
)

type purchaseRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPurchaseRepository creates a new instance of the purchase repository
func NewPurchaseRepository(db *database.DB, logger *logger.Logger) purchase.Repository {
	return &purchaseRepository{db: db, logger: logger}
}

const purchaseColumns = `id, order_number, vehicle_id, middle_man_ref, seller_name, total_amount,
	cash_amount, bank_amount, credit_amount, broker_fee, purchase_date, document_refs,
	created_at, updated_at, created_by, updated_by`

func (r *purchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES (
			:id, :order_number, :vehicle_id, :middle_man_ref, :seller_name, :total_amount,
			:cash_amount, :bank_amount, :credit_amount, :broker_fee, :purchase_date, :document_refs,
			:created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating purchase",
		"purchase_id", p.ID,
		"order_number", p.OrderNumber,
	)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p); err != nil {
		return database.ClassifyError(err, "insert purchase")
	}
	return nil
}

func (r *purchaseRepository) Get(ctx context.Context, id string) (*purchase.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = :id`

	var p purchase.Purchase
	err := r.db.GetQuerier(ctx).NamedGetContext(ctx, &p, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, getError(err, "purchases", id, "get purchase")
	}
	return &p, nil
}
