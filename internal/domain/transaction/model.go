package transaction

import (
	"context"
	"sort"
	"time"

	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/shopspring/decimal"
)

// Transaction is a person-facing record of a business event.
// Only Status may change after creation.
type Transaction struct {
	ID            string                  `db:"id" json:"id"`
	Type          types.TransactionType   `db:"type" json:"type"`
	PersonRef     string                  `db:"person_ref" json:"person_ref"`
	PersonName    string                  `db:"person_name" json:"person_name"`
	Amount        decimal.Decimal         `db:"amount" json:"amount" swaggertype:"string"`
	PaymentMethod types.PaymentMethod     `db:"payment_method" json:"payment_method"`
	CashAmount    decimal.Decimal         `db:"cash_amount" json:"cash_amount" swaggertype:"string"`
	BankAmount    decimal.Decimal         `db:"bank_amount" json:"bank_amount" swaggertype:"string"`
	CreditAmount  decimal.Decimal         `db:"credit_amount" json:"credit_amount" swaggertype:"string"`
	Date          time.Time               `db:"date" json:"date"`
	OrderNumber   *int64                  `db:"order_number" json:"order_number,omitempty"`
	RelatedRef    *string                 `db:"related_ref" json:"related_ref,omitempty"`
	Note          string                  `db:"note" json:"note"`
	Status        types.TransactionStatus `db:"status" json:"status"`
	Version       int64                   `db:"version" json:"version"`
	types.BaseModel
}

// New returns a completed transaction for the given split
func New(ctx context.Context, txType types.TransactionType, split types.PaymentSplit, date time.Time) *Transaction {
	return &Transaction{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION),
		Type:          txType,
		Amount:        split.Total(),
		PaymentMethod: split.Method(),
		CashAmount:    split.Cash,
		BankAmount:    split.Bank,
		CreditAmount:  split.Credit,
		Date:          date.UTC(),
		Status:        types.TransactionStatusCompleted,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

func (t *Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.PaymentMethod.Validate(); err != nil {
		return err
	}
	if err := t.Status.Validate(); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return ierr.NewError("transaction amount must not be negative").
			WithHint("Transaction amount must not be negative").
			WithReportableDetails(map[string]any{
				"amount": t.Amount.String(),
			}).
			Mark(ierr.ErrInvalidAmount)
	}
	if t.Date.IsZero() {
		return ierr.NewError("transaction date is required").
			WithHint("Transaction date is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TransitionTo moves the transaction to status if the lifecycle allows it
func (t *Transaction) TransitionTo(ctx context.Context, status types.TransactionStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if !t.Status.CanTransitionTo(status) {
		return ierr.NewError("invalid transaction status transition").
			WithHintf("Cannot move a %s transaction to %s", t.Status, status).
			WithReportableDetails(map[string]any{
				"from": t.Status,
				"to":   status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	t.Status = status
	t.Touch(ctx, time.Now())
	return nil
}

// SortByDateDesc orders transactions newest first. Ties fall back to the
// creation time and then the id so repeated reads return the same order.
func SortByDateDesc(txns []*Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		a, b := txns[i], txns[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
