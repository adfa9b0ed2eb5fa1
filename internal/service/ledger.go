package service

import (
	"context"
	"time"

	"github.com/dealerbook/dealerbook/internal/api/dto"
	"github.com/dealerbook/dealerbook/internal/cache"
	"github.com/dealerbook/dealerbook/internal/domain/transaction"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/samber/lo"
)

// LedgerService records and queries person transactions. Transactions are
// immutable except for their status; corrections are offsetting records.
type LedgerService interface {
	Record(ctx context.Context, t *transaction.Transaction) (string, error)
	GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error)
	// QueryTransactions returns matching transactions, newest date first
	QueryTransactions(ctx context.Context, filter *types.TransactionFilter) (*dto.ListTransactionsResponse, error)
	ByPerson(ctx context.Context, personRef string) (*dto.ListTransactionsResponse, error)
	ByType(ctx context.Context, txType types.TransactionType) (*dto.ListTransactionsResponse, error)
	ByDateRange(ctx context.Context, start, end time.Time) (*dto.ListTransactionsResponse, error)
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateTransactionStatusRequest) (*dto.TransactionResponse, error)
}

type ledgerService struct {
	ServiceParams
}

func NewLedgerService(params ServiceParams) LedgerService {
	return &ledgerService{
		ServiceParams: params,
	}
}

func (s *ledgerService) Record(ctx context.Context, t *transaction.Transaction) (string, error) {
	if t.ID == "" {
		t.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION)
	}
	if t.Status == "" {
		t.Status = types.TransactionStatusCompleted
	}
	if t.CreatedAt.IsZero() {
		t.BaseModel = types.GetDefaultBaseModel(ctx)
	}
	if err := t.Validate(); err != nil {
		return "", err
	}

	_, err := s.commitEvent(ctx, types.EventTransactionRecord, func(ctx context.Context, plan *commitPlan) error {
		plan.addTransaction(t)
		return nil
	})
	if err != nil {
		return "", err
	}
	return t.ID, nil
}

func (s *ledgerService) GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	t, err := s.TransactionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionResponse{Transaction: t}, nil
}

func (s *ledgerService) QueryTransactions(ctx context.Context, filter *types.TransactionFilter) (*dto.ListTransactionsResponse, error) {
	if filter == nil {
		filter = types.NewTransactionFilter()
	}
	if filter.EndDate != nil && filter.EndDate.Equal(types.StartOfDay(*filter.EndDate)) {
		// a bare end date includes the whole day
		filter.EndDate = lo.ToPtr(types.EndOfDay(*filter.EndDate))
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	key := cache.GenerateKey(cache.PrefixTransactions,
		filter.PersonRef,
		lo.FromPtr(filter.Type),
		formatDate(filter.StartDate),
		formatDate(filter.EndDate),
		filter.Mode,
	)
	if cached, ok := s.fromCache(ctx, cache.PrefixTransactions, key); ok {
		if resp, ok := cached.(*dto.ListTransactionsResponse); ok {
			return resp, nil
		}
	}

	txns, err := s.TransactionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	transaction.SortByDateDesc(txns)

	items := lo.Map(txns, func(t *transaction.Transaction, _ int) *dto.TransactionResponse {
		return &dto.TransactionResponse{Transaction: t}
	})
	resp := types.NewListResponse(items, len(items), len(items), 0)
	s.toCache(ctx, key, &resp)
	return &resp, nil
}

func (s *ledgerService) ByPerson(ctx context.Context, personRef string) (*dto.ListTransactionsResponse, error) {
	filter := types.NewTransactionFilter()
	filter.PersonRef = personRef
	return s.QueryTransactions(ctx, filter)
}

func (s *ledgerService) ByType(ctx context.Context, txType types.TransactionType) (*dto.ListTransactionsResponse, error) {
	filter := types.NewTransactionFilter()
	filter.Type = lo.ToPtr(txType)
	return s.QueryTransactions(ctx, filter)
}

func (s *ledgerService) ByDateRange(ctx context.Context, start, end time.Time) (*dto.ListTransactionsResponse, error) {
	filter := types.NewTransactionFilter()
	filter.StartDate = lo.ToPtr(start)
	filter.EndDate = lo.ToPtr(end)
	return s.QueryTransactions(ctx, filter)
}

func (s *ledgerService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateTransactionStatusRequest) (*dto.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *transaction.Transaction
	_, err := s.commitEvent(ctx, types.EventTransactionStatus, func(ctx context.Context, plan *commitPlan) error {
		t, err := s.TransactionRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := t.TransitionTo(ctx, req.Status); err != nil {
			return err
		}
		plan.updateTransactionStatus(t)
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.TransactionResponse{Transaction: updated}, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// validateID rejects blank identifiers before they reach the store
func validateID(field, id string) error {
	if id == "" {
		return ierr.NewErrorf("%s is required", field).
			WithHintf("%s is required", field).
			Mark(ierr.ErrValidation)
	}
	return nil
}
