package sale

import (
	"context"
	"time"

	"github.com/dealerbook/dealerbook/internal/domain/installment"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/shopspring/decimal"
)

// Sale is a vehicle sold to a customer, paid in full or through installments
type Sale struct {
	ID             string                `db:"id" json:"id"`
	OrderNumber    int64                 `db:"order_number" json:"order_number"`
	CustomerRef    string                `db:"customer_ref" json:"customer_ref"`
	CustomerName   string                `db:"customer_name" json:"customer_name"`
	VehicleRef     string                `db:"vehicle_ref" json:"vehicle_ref"`
	PurchaseType   types.PurchaseType    `db:"purchase_type" json:"purchase_type"`
	TotalAmount    decimal.Decimal       `db:"total_amount" json:"total_amount" swaggertype:"string"`
	DownCashAmount decimal.Decimal       `db:"down_cash_amount" json:"down_cash_amount" swaggertype:"string"`
	DownBankAmount decimal.Decimal       `db:"down_bank_amount" json:"down_bank_amount" swaggertype:"string"`
	Schedule       *installment.Schedule `db:"schedule" json:"schedule,omitempty"`
	SaleDate       time.Time             `db:"sale_date" json:"sale_date"`
	Status         types.SaleStatus      `db:"status" json:"status"`
	DocumentRefs   types.StringList      `db:"document_refs" json:"document_refs"`
	Version        int64                 `db:"version" json:"version"`
	types.BaseModel
}

// DownPayment returns the amount received when the sale was made
func (s *Sale) DownPayment() types.PaymentSplit {
	return types.PaymentSplit{
		Cash: s.DownCashAmount,
		Bank: s.DownBankAmount,
	}
}

// RecordPayment applies one installment to the sale's schedule and
// completes the sale when nothing remains.
func (s *Sale) RecordPayment(ctx context.Context, cashAmount, bankAmount decimal.Decimal, paymentDate time.Time) error {
	if s.PurchaseType != types.PurchaseTypeEMI || s.Schedule == nil {
		return ierr.NewError("sale has no installment schedule").
			WithHint("Installment payments can only be recorded against EMI sales").
			WithReportableDetails(map[string]any{
				"sale_id":       s.ID,
				"purchase_type": s.PurchaseType,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	next, err := s.Schedule.RecordPayment(cashAmount, bankAmount, paymentDate)
	if err != nil {
		return err
	}

	s.Schedule = next
	if next.IsComplete() {
		s.Status = types.SaleStatusCompleted
	} else {
		s.Status = types.SaleStatusActive
	}
	s.Touch(ctx, time.Now())
	return nil
}

// IsOverdue reports whether an EMI sale has missed its next due date
func (s *Sale) IsOverdue(now time.Time) bool {
	return s.Schedule != nil && s.Status == types.SaleStatusActive && s.Schedule.IsOverdue(now)
}
