package capital

import (
	"context"
	"time"

	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Account is a named capital account with its running balance.
// Entries applied to it are kept pending until the repository saves the
// account, so the balance and the entry log are always written together.
type Account struct {
	Name    types.AccountName `db:"name" json:"name"`
	Balance decimal.Decimal   `db:"balance" json:"balance" swaggertype:"string"`
	Version int64             `db:"version" json:"version"`
	types.BaseModel

	pending []*Entry
}

// Entry is an immutable line of an account's log
type Entry struct {
	ID            string               `db:"id" json:"id"`
	AccountName   types.AccountName    `db:"account_name" json:"account_name"`
	Timestamp     time.Time            `db:"timestamp" json:"timestamp"`
	Delta         decimal.Decimal      `db:"delta" json:"delta" swaggertype:"string"`
	BalanceAfter  decimal.Decimal      `db:"balance_after" json:"balance_after" swaggertype:"string"`
	OrderNumber   *int64               `db:"order_number" json:"order_number,omitempty"`
	ReferenceType *types.ReferenceType `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID   *string              `db:"reference_id" json:"reference_id,omitempty"`
	Description   string               `db:"description" json:"description"`
	Reason        *string              `db:"reason" json:"reason,omitempty"`
	CreatedAt     time.Time            `db:"created_at" json:"created_at"`
	CreatedBy     string               `db:"created_by" json:"created_by"`
}

// EntryMeta describes why a delta was applied
type EntryMeta struct {
	Timestamp     time.Time
	OrderNumber   *int64
	ReferenceType types.ReferenceType
	ReferenceID   string
	Description   string
	Reason        string
}

// NewAccount returns an unsaved account with a zero balance
func NewAccount(ctx context.Context, name types.AccountName) *Account {
	return &Account{
		Name:      name,
		Balance:   decimal.Zero,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// Apply adds delta to the balance and records the matching entry.
// Balances have no floor.
func (a *Account) Apply(ctx context.Context, delta decimal.Decimal, meta EntryMeta) *Entry {
	a.Balance = a.Balance.Add(delta)

	ts := meta.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	a.Touch(ctx, ts)

	entry := &Entry{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CAPITAL_ENTRY),
		AccountName:  a.Name,
		Timestamp:    ts.UTC(),
		Delta:        delta,
		BalanceAfter: a.Balance,
		OrderNumber:  meta.OrderNumber,
		Description:  meta.Description,
		CreatedAt:    time.Now().UTC(),
		CreatedBy:    types.GetUserID(ctx),
	}
	if meta.ReferenceType != "" {
		entry.ReferenceType = lo.ToPtr(meta.ReferenceType)
	}
	if meta.ReferenceID != "" {
		entry.ReferenceID = lo.ToPtr(meta.ReferenceID)
	}
	if meta.Reason != "" {
		entry.Reason = lo.ToPtr(meta.Reason)
	}

	a.pending = append(a.pending, entry)
	return entry
}

// PendingEntries returns entries applied since the last save
func (a *Account) PendingEntries() []*Entry {
	return a.pending
}

// ClearPending is called by repositories once the entries are persisted
func (a *Account) ClearPending() {
	a.pending = nil
}

// IsNew reports whether the account has never been persisted
func (a *Account) IsNew() bool {
	return a.Version == 0
}
