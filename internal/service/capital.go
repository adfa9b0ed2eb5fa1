package service

import (
	"context"
	"time"

	"github.com/dealerbook/dealerbook/internal/api/dto"
	"github.com/dealerbook/dealerbook/internal/cache"
	"github.com/dealerbook/dealerbook/internal/domain/capital"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CapitalService reads capital accounts and posts single deltas.
// Business events post their deltas through the coordinator instead.
type CapitalService interface {
	// ApplyDelta posts delta to the account and returns the new balance.
	// Balances have no floor.
	ApplyDelta(ctx context.Context, name types.AccountName, delta decimal.Decimal, meta capital.EntryMeta) (decimal.Decimal, error)
	GetAccount(ctx context.Context, name types.AccountName) (*dto.AccountResponse, error)
	// ListAccounts returns every account, unsaved ones with a zero balance
	ListAccounts(ctx context.Context) (*dto.ListAccountsResponse, error)
	// ListEntries returns the newest entries first; limit <= 0 returns all
	ListEntries(ctx context.Context, name types.AccountName, limit int) (*dto.ListEntriesResponse, error)
}

type capitalService struct {
	ServiceParams
}

func NewCapitalService(params ServiceParams) CapitalService {
	return &capitalService{
		ServiceParams: params,
	}
}

func (s *capitalService) ApplyDelta(ctx context.Context, name types.AccountName, delta decimal.Decimal, meta capital.EntryMeta) (decimal.Decimal, error) {
	if err := name.Validate(); err != nil {
		return decimal.Zero, err
	}
	if delta.IsZero() {
		return decimal.Zero, ierr.NewError("delta must not be zero").
			WithHint("Amount to post must not be zero").
			Mark(ierr.ErrInvalidAmount)
	}

	var balance decimal.Decimal
	_, err := s.commitEvent(ctx, types.EventCapitalDelta, func(ctx context.Context, plan *commitPlan) error {
		if meta.Timestamp.IsZero() {
			meta.Timestamp = time.Now()
		}
		if _, err := plan.applyDelta(ctx, name, delta, meta); err != nil {
			return err
		}
		a, err := plan.account(ctx, name)
		if err != nil {
			return err
		}
		balance = a.Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *capitalService) GetAccount(ctx context.Context, name types.AccountName) (*dto.AccountResponse, error) {
	if err := name.Validate(); err != nil {
		return nil, err
	}

	a, err := s.CapitalRepo.GetAccount(ctx, name)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		a = capital.NewAccount(ctx, name)
	}
	return &dto.AccountResponse{Account: a}, nil
}

func (s *capitalService) ListAccounts(ctx context.Context) (*dto.ListAccountsResponse, error) {
	key := cache.GenerateKey(cache.PrefixAccounts, "all")
	if cached, ok := s.fromCache(ctx, cache.PrefixAccounts, key); ok {
		if resp, ok := cached.(*dto.ListAccountsResponse); ok {
			return resp, nil
		}
	}

	accounts, err := s.CapitalRepo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	byName := lo.KeyBy(accounts, func(a *capital.Account) types.AccountName {
		return a.Name
	})

	items := make([]*dto.AccountResponse, 0, len(types.AllAccountNames()))
	for _, name := range types.AllAccountNames() {
		a, ok := byName[name]
		if !ok {
			a = capital.NewAccount(ctx, name)
		}
		items = append(items, &dto.AccountResponse{Account: a})
	}

	resp := types.NewListResponse(items, len(items), len(items), 0)
	s.toCache(ctx, key, &resp)
	return &resp, nil
}

func (s *capitalService) ListEntries(ctx context.Context, name types.AccountName, limit int) (*dto.ListEntriesResponse, error) {
	if err := name.Validate(); err != nil {
		return nil, err
	}

	key := cache.GenerateKey(cache.PrefixEntries, name, limit)
	if cached, ok := s.fromCache(ctx, cache.PrefixEntries, key); ok {
		if resp, ok := cached.(*dto.ListEntriesResponse); ok {
			return resp, nil
		}
	}

	entries, err := s.CapitalRepo.ListEntries(ctx, name, limit)
	if err != nil {
		return nil, err
	}

	items := lo.Map(entries, func(e *capital.Entry, _ int) *dto.EntryResponse {
		return &dto.EntryResponse{Entry: e}
	})
	resp := types.NewListResponse(items, len(items), limit, 0)
	s.toCache(ctx, key, &resp)
	return &resp, nil
}
