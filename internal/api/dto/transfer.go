package dto

import (
	"time"

	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/dealerbook/dealerbook/internal/validator"
	"github.com/shopspring/decimal"
)

// TransferEndpoint is one side of a funds transfer: a capital account
// (ID is the account name) or a person (ID is the person id)
type TransferEndpoint struct {
	Kind types.EndpointKind `json:"kind" validate:"required"`
	ID   string             `json:"id" validate:"required"`
}

// Same reports whether both endpoints name the same balance
func (e TransferEndpoint) Same(other TransferEndpoint) bool {
	return e.Kind == other.Kind && e.ID == other.ID
}

func (e TransferEndpoint) Validate() error {
	if err := e.Kind.Validate(); err != nil {
		return err
	}
	if e.Kind == types.EndpointKindAccount {
		return types.AccountName(e.ID).Validate()
	}
	return nil
}

// TransferFundsRequest moves an amount between two endpoints
type TransferFundsRequest struct {
	From   TransferEndpoint `json:"from"`
	To     TransferEndpoint `json:"to"`
	Amount decimal.Decimal  `json:"amount" swaggertype:"string"`
	Note   string           `json:"note,omitempty" validate:"max=1000"`
	Date   time.Time        `json:"date" validate:"required"`
}

func (r *TransferFundsRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.From.Validate(); err != nil {
		return err
	}
	if err := r.To.Validate(); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("transfer amount must be positive").
			WithHint("Transfer amount must be greater than zero").
			WithReportableDetails(map[string]any{
				"amount": r.Amount.String(),
			}).
			Mark(ierr.ErrInvalidAmount)
	}
	if r.From.Same(r.To) {
		return ierr.NewError("transfer endpoints are the same").
			WithHint("Source and destination of a transfer must differ").
			WithReportableDetails(map[string]any{
				"kind": r.From.Kind,
				"id":   r.From.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}
