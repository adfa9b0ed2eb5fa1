package memory

import (
	"context"
	"encoding/json"

	"github.com/dealerbook/dealerbook/internal/domain/inventory"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
)

type inventoryRepository struct {
	store  *Store
	logger *logger.Logger
}

// NewInventoryRepository creates an inventory repository backed by store
func NewInventoryRepository(store *Store, logger *logger.Logger) inventory.Repository {
	return &inventoryRepository{store: store, logger: logger}
}

func (r *inventoryRepository) GetSummary(ctx context.Context, id string) (*inventory.Summary, error) {
	var s inventory.Summary
	if err := r.store.get(ctx, TableSummaries, id, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *inventoryRepository) SaveSummary(ctx context.Context, s *inventory.Summary) error {
	expected := s.Version
	s.Version = expected + 1
	if err := r.store.put(ctx, TableSummaries, s.ID, expected, s); err != nil {
		s.Version = expected
		return err
	}
	return nil
}

func (r *inventoryRepository) GetVehicle(ctx context.Context, id string) (*inventory.Vehicle, error) {
	var v inventory.Vehicle
	if err := r.store.get(ctx, TableVehicles, id, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *inventoryRepository) GetVehicleByChassis(ctx context.Context, chassisNumber string) (*inventory.Vehicle, error) {
	var found *inventory.Vehicle
	err := r.store.scan(TableVehicles, func(_ string, payload []byte) error {
		var v inventory.Vehicle
		if err := json.Unmarshal(payload, &v); err != nil {
			return err
		}
		if v.ChassisNumber == chassisNumber {
			found = &v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ierr.NewError("vehicle not found").
			WithHintf("No vehicle with chassis number %s", chassisNumber).
			Mark(ierr.ErrNotFound)
	}
	return found, nil
}

func (r *inventoryRepository) SaveVehicle(ctx context.Context, v *inventory.Vehicle) error {
	expected := v.Version
	v.Version = expected + 1
	if err := r.store.put(ctx, TableVehicles, v.ID, expected, v); err != nil {
		v.Version = expected
		return err
	}
	return nil
}
