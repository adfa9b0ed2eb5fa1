package dto

import (
	"github.com/dealerbook/dealerbook/internal/domain/transaction"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/dealerbook/dealerbook/internal/validator"
)

type TransactionResponse struct {
	*transaction.Transaction
}

type ListTransactionsResponse = types.ListResponse[*TransactionResponse]

// UpdateTransactionStatusRequest settles or cancels a transaction
type UpdateTransactionStatusRequest struct {
	Status types.TransactionStatus `json:"status" validate:"required"`
}

func (r *UpdateTransactionStatusRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Status.Validate()
}
