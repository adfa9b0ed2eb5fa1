package sqlstore

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/database"
	"github.com/dealerbook/dealerbook/internal/domain/inventory"
	"github.com/dealerbook/dealerbook/internal/logger"
)

type inventoryRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewInventoryRepository creates a new instance of the inventory repository
func NewInventoryRepository(db *database.DB, logger *logger.Logger) inventory.Repository {
	return &inventoryRepository{db: db, logger: logger}
}

const summaryColumns = `id, brand, category, items, version, created_at, updated_at, created_by, updated_by`

const vehicleColumns = `id, summary_id, item_id, chassis_number, engine_number, color, model_year,
	description, purchase_id, sale_id, status, document_refs, version,
	created_at, updated_at, created_by, updated_by`

func (r *inventoryRepository) GetSummary(ctx context.Context, id string) (*inventory.Summary, error) {
	query := `SELECT ` + summaryColumns + ` FROM inventory_summaries WHERE id = :id`

	var s inventory.Summary
	err := r.db.GetQuerier(ctx).NamedGetContext(ctx, &s, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, getError(err, "inventory_summaries", id, "get inventory summary")
	}
	return &s, nil
}

func (r *inventoryRepository) SaveSummary(ctx context.Context, s *inventory.Summary) error {
	q := r.db.GetQuerier(ctx)

	r.logger.Debugw("saving inventory summary",
		"summary_id", s.ID,
		"items", len(s.Items),
		"version", s.Version,
	)

	if s.IsNew() {
		query := `
			INSERT INTO inventory_summaries (` + summaryColumns + `)
			VALUES (:id, :brand, :category, :items, 1, :created_at, :updated_at, :created_by, :updated_by)`

		if _, err := q.NamedExecContext(ctx, query, s); err != nil {
			return database.ClassifyError(err, "insert inventory summary")
		}
		s.Version = 1
		return nil
	}

	query := `
		UPDATE inventory_summaries
		SET items = :items, version = version + 1, updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id AND version = :version`

	result, err := q.NamedExecContext(ctx, query, s)
	if err != nil {
		return database.ClassifyError(err, "update inventory summary")
	}
	if err := checkVersioned(result, "inventory_summaries", s.ID, s.Version); err != nil {
		return err
	}
	s.Version++
	return nil
}

func (r *inventoryRepository) GetVehicle(ctx context.Context, id string) (*inventory.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = :id`

	var v inventory.Vehicle
	err := r.db.GetQuerier(ctx).NamedGetContext(ctx, &v, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, getError(err, "vehicles", id, "get vehicle")
	}
	return &v, nil
}

func (r *inventoryRepository) GetVehicleByChassis(ctx context.Context, chassisNumber string) (*inventory.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE chassis_number = :chassis_number`

	var v inventory.Vehicle
	err := r.db.GetQuerier(ctx).NamedGetContext(ctx, &v, query, map[string]interface{}{"chassis_number": chassisNumber})
	if err != nil {
		return nil, getError(err, "vehicles", chassisNumber, "get vehicle by chassis")
	}
	return &v, nil
}

func (r *inventoryRepository) SaveVehicle(ctx context.Context, v *inventory.Vehicle) error {
	q := r.db.GetQuerier(ctx)

	if v.IsNew() {
		query := `
			INSERT INTO vehicles (` + vehicleColumns + `)
			VALUES (
				:id, :summary_id, :item_id, :chassis_number, :engine_number, :color, :model_year,
				:description, :purchase_id, :sale_id, :status, :document_refs, 1,
				:created_at, :updated_at, :created_by, :updated_by
			)`

		if _, err := q.NamedExecContext(ctx, query, v); err != nil {
			return database.ClassifyError(err, "insert vehicle")
		}
		v.Version = 1
		return nil
	}

	query := `
		UPDATE vehicles
		SET sale_id = :sale_id, status = :status, document_refs = :document_refs,
			version = version + 1, updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id AND version = :version`

	result, err := q.NamedExecContext(ctx, query, v)
	if err != nil {
		return database.ClassifyError(err, "update vehicle")
	}
	if err := checkVersioned(result, "vehicles", v.ID, v.Version); err != nil {
		return err
	}
	v.Version++
	return nil
}
