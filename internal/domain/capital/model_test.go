package capital

import (
	"context"
	"testing"
	"time"

	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountApply(t *testing.T) {
	ctx := types.SetUserID(context.Background(), "user_1")
	a := NewAccount(ctx, types.AccountCash)
	assert.True(t, a.IsNew())
	assert.True(t, a.Balance.IsZero())

	at := time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC)
	first := a.Apply(ctx, decimal.NewFromInt(-500), EntryMeta{
		Timestamp:     at,
		OrderNumber:   lo.ToPtr(int64(1)),
		ReferenceType: types.ReferenceTypePurchase,
		ReferenceID:   "pur_1",
		Description:   "Purchase #1",
	})
	second := a.Apply(ctx, decimal.NewFromInt(200), EntryMeta{
		Description: "Correction",
		Reason:      "miscounted drawer",
	})

	// negative balances are allowed
	assert.True(t, a.Balance.Equal(decimal.NewFromInt(-300)))

	assert.Equal(t, types.AccountCash, first.AccountName)
	assert.True(t, first.BalanceAfter.Equal(decimal.NewFromInt(-500)))
	assert.Equal(t, at, first.Timestamp)
	assert.Equal(t, int64(1), lo.FromPtr(first.OrderNumber))
	assert.Equal(t, types.ReferenceTypePurchase, lo.FromPtr(first.ReferenceType))
	assert.Equal(t, "pur_1", lo.FromPtr(first.ReferenceID))
	assert.Nil(t, first.Reason)
	assert.Equal(t, "user_1", first.CreatedBy)

	assert.True(t, second.BalanceAfter.Equal(a.Balance))
	assert.False(t, second.Timestamp.IsZero())
	assert.Nil(t, second.ReferenceType)
	assert.Nil(t, second.ReferenceID)
	assert.Equal(t, "miscounted drawer", lo.FromPtr(second.Reason))

	require.Len(t, a.PendingEntries(), 2)
	sum := lo.Reduce(a.PendingEntries(), func(acc decimal.Decimal, e *Entry, _ int) decimal.Decimal {
		return acc.Add(e.Delta)
	}, decimal.Zero)
	assert.True(t, sum.Equal(a.Balance))

	a.ClearPending()
	assert.Empty(t, a.PendingEntries())
}
