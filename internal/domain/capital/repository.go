package capital

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/types"
)

// Repository persists capital accounts and their entry logs
type Repository interface {
	GetAccount(ctx context.Context, name types.AccountName) (*Account, error)
	ListAccounts(ctx context.Context) ([]*Account, error)
	// SaveAccount writes the account and appends its pending entries.
	// Existing accounts are updated only when the stored version matches.
	SaveAccount(ctx context.Context, a *Account) error
	// ListEntries returns the newest entries first; limit <= 0 returns all
	ListEntries(ctx context.Context, name types.AccountName, limit int) ([]*Entry, error)
}
