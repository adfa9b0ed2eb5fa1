package dto

import (
	"github.com/dealerbook/dealerbook/internal/domain/capital"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/dealerbook/dealerbook/internal/validator"
	"github.com/shopspring/decimal"
)

// SetAccountBalanceRequest overrides an account balance. The difference is
// logged as an adjustment entry.
type SetAccountBalanceRequest struct {
	Balance     decimal.Decimal `json:"balance" swaggertype:"string"`
	Description string          `json:"description" validate:"required,max=255"`
	Reason      string          `json:"reason,omitempty" validate:"max=1000"`
}

func (r *SetAccountBalanceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type AccountResponse struct {
	*capital.Account
}

type ListAccountsResponse = types.ListResponse[*AccountResponse]

type EntryResponse struct {
	*capital.Entry
}

type ListEntriesResponse = types.ListResponse[*EntryResponse]

// SetAccountBalanceResponse reports the applied adjustment, if any
type SetAccountBalanceResponse struct {
	Account *AccountResponse `json:"account"`
	Entry   *EntryResponse   `json:"entry,omitempty"`
}
