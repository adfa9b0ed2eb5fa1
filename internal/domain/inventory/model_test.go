package inventory

import (
	"context"
	"testing"

	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryIntakeAndDispose(t *testing.T) {
	ctx := context.Background()
	s := NewSummary(ctx, "inv_hero_bike", "Hero", "BIKE")
	assert.True(t, s.IsNew())
	assert.Equal(t, 0, s.Quantity("splendor"))

	s.Intake(ctx, "splendor")
	s.Intake(ctx, "splendor")
	s.Intake(ctx, "passion")
	assert.Equal(t, 2, s.Quantity("splendor"))
	assert.Equal(t, 1, s.Quantity("passion"))
	assert.Len(t, s.Items, 2)

	require.NoError(t, s.Dispose(ctx, "passion"))
	assert.Equal(t, 0, s.Quantity("passion"))
	assert.Len(t, s.Items, 1)

	// quantities never go below zero
	err := s.Dispose(ctx, "passion")
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))

	err = s.Dispose(ctx, "glamour")
	assert.True(t, ierr.IsInvalidOperation(err))
	assert.Equal(t, 2, s.Quantity("splendor"))
}

func TestItemsScan(t *testing.T) {
	var items Items
	require.NoError(t, items.Scan([]byte(`[{"item_id":"splendor","quantity":3}]`)))
	require.Len(t, items, 1)
	assert.Equal(t, "splendor", items[0].ItemID)
	assert.Equal(t, 3, items[0].Quantity)

	value, err := items.Value()
	require.NoError(t, err)

	var back Items
	require.NoError(t, back.Scan(value))
	assert.Equal(t, items, back)
}

func TestVehicleMarkSold(t *testing.T) {
	ctx := context.Background()
	v := &Vehicle{
		ID:            "veh_1",
		ChassisNumber: "CH-001",
		Status:        types.VehicleStatusInStock,
	}

	require.NoError(t, v.MarkSold(ctx, "sale_1"))
	assert.Equal(t, types.VehicleStatusSold, v.Status)
	require.NotNil(t, v.SaleID)
	assert.Equal(t, "sale_1", *v.SaleID)

	err := v.MarkSold(ctx, "sale_2")
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))
	assert.Equal(t, "sale_1", *v.SaleID)
}
