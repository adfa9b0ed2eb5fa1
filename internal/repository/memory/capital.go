package memory

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/dealerbook/dealerbook/internal/domain/capital"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/types"
)

type capitalRepository struct {
	store  *Store
	logger *logger.Logger
}

// NewCapitalRepository creates a capital account repository backed by store
func NewCapitalRepository(store *Store, logger *logger.Logger) capital.Repository {
	return &capitalRepository{store: store, logger: logger}
}

func (r *capitalRepository) GetAccount(ctx context.Context, name types.AccountName) (*capital.Account, error) {
	var a capital.Account
	if err := r.store.get(ctx, TableAccounts, string(name), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *capitalRepository) ListAccounts(ctx context.Context) ([]*capital.Account, error) {
	var accounts []*capital.Account
	err := r.store.scan(TableAccounts, func(_ string, payload []byte) error {
		var a capital.Account
		if err := json.Unmarshal(payload, &a); err != nil {
			return err
		}
		accounts = append(accounts, &a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Name < accounts[j].Name
	})
	return accounts, nil
}

func (r *capitalRepository) SaveAccount(ctx context.Context, a *capital.Account) error {
	expected := a.Version
	a.Version = expected + 1
	if err := r.store.put(ctx, TableAccounts, string(a.Name), expected, a); err != nil {
		a.Version = expected
		return err
	}

	for _, e := range a.PendingEntries() {
		if err := r.store.put(ctx, TableEntries, e.ID, 0, e); err != nil {
			return err
		}
	}

	r.logger.Debugw("saved capital account",
		"account", a.Name,
		"balance", a.Balance.String(),
		"entries", len(a.PendingEntries()),
	)
	a.ClearPending()
	return nil
}

func (r *capitalRepository) ListEntries(ctx context.Context, name types.AccountName, limit int) ([]*capital.Entry, error) {
	var entries []*capital.Entry
	err := r.store.scan(TableEntries, func(_ string, payload []byte) error {
		var e capital.Entry
		if err := json.Unmarshal(payload, &e); err != nil {
			return err
		}
		if e.AccountName == name {
			entries = append(entries, &e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		}
		return entries[i].ID > entries[j].ID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
