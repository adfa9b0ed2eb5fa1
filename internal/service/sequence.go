package service

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/api/dto"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
)

// SequenceService hands out strictly increasing numbers
type SequenceService interface {
	// NextValue advances the sequence and returns the new value. The first
	// call for an id returns 1. Concurrent callers never share a value; the
	// loser of a race gets a version conflict.
	NextValue(ctx context.Context, sequenceID string) (*dto.SequenceValueResponse, error)
	// NextOrderNumber returns the latest committed order number, 0 when none was issued
	NextOrderNumber(ctx context.Context) (*dto.OrderNumberResponse, error)
}

type sequenceService struct {
	ServiceParams
}

func NewSequenceService(params ServiceParams) SequenceService {
	return &sequenceService{
		ServiceParams: params,
	}
}

func (s *sequenceService) NextValue(ctx context.Context, sequenceID string) (*dto.SequenceValueResponse, error) {
	if sequenceID == "" {
		return nil, ierr.NewError("sequence id is required").
			WithHint("Sequence id is required").
			Mark(ierr.ErrValidation)
	}

	var value int64
	_, err := s.commitEvent(ctx, types.EventOrderNumberIssued, func(ctx context.Context, plan *commitPlan) error {
		var err error
		if sequenceID == types.SequenceOrder {
			value, err = plan.issueOrderNumber(ctx)
		} else {
			value, err = plan.nextValue(ctx, sequenceID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return &dto.SequenceValueResponse{
		SequenceID: sequenceID,
		Value:      value,
	}, nil
}

func (s *sequenceService) NextOrderNumber(ctx context.Context) (*dto.OrderNumberResponse, error) {
	c, err := s.SequenceRepo.Get(ctx, types.SequenceOrder)
	if err != nil {
		if ierr.IsNotFound(err) {
			return &dto.OrderNumberResponse{}, nil
		}
		return nil, err
	}
	return &dto.OrderNumberResponse{OrderNumber: c.Value}, nil
}
