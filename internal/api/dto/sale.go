package dto

import (
	"context"
	"time"

	"github.com/dealerbook/dealerbook/internal/domain/installment"
	"github.com/dealerbook/dealerbook/internal/domain/sale"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/dealerbook/dealerbook/internal/validator"
	"github.com/shopspring/decimal"
)

// RecordSaleRequest sells an in-stock vehicle to a customer
type RecordSaleRequest struct {
	CustomerRef  string                  `json:"customer_ref" validate:"required"`
	VehicleID    string                  `json:"vehicle_id" validate:"required"`
	PurchaseType types.PurchaseType      `json:"purchase_type" validate:"required"`
	TotalAmount  decimal.Decimal         `json:"total_amount" swaggertype:"string"`
	DownPayment  DownPaymentRequest      `json:"down_payment"`
	Installments *InstallmentPlanRequest `json:"installments,omitempty"`
	SaleDate     time.Time               `json:"sale_date" validate:"required"`
	DocumentRefs []string                `json:"document_refs,omitempty"`
}

// DownPaymentRequest is the amount received when the sale is made
type DownPaymentRequest struct {
	Cash decimal.Decimal `json:"cash" swaggertype:"string"`
	Bank decimal.Decimal `json:"bank" swaggertype:"string"`
}

// Split returns the down payment as a payment split
func (r DownPaymentRequest) Split() types.PaymentSplit {
	return types.PaymentSplit{Cash: r.Cash, Bank: r.Bank}
}

// InstallmentPlanRequest are the terms of an EMI sale
type InstallmentPlanRequest struct {
	InterestRate      decimal.Decimal `json:"interest_rate" swaggertype:"string"`
	Frequency         types.Frequency `json:"frequency" validate:"required"`
	TotalInstallments int             `json:"total_installments" validate:"required,gte=1"`
	InstallmentAmount decimal.Decimal `json:"installment_amount" swaggertype:"string"`
	FirstDueDate      time.Time       `json:"first_due_date" validate:"required"`
}

// ToSchedule validates the terms into a fresh schedule
func (r *InstallmentPlanRequest) ToSchedule() (*installment.Schedule, error) {
	return installment.NewSchedule(r.InterestRate, r.Frequency, r.TotalInstallments, r.InstallmentAmount, r.FirstDueDate)
}

func (r *RecordSaleRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.PurchaseType.Validate(); err != nil {
		return err
	}
	if err := r.DownPayment.Split().Validate(); err != nil {
		return err
	}
	if !r.TotalAmount.IsPositive() {
		return ierr.NewError("total amount must be positive").
			WithHint("Sale total must be greater than zero").
			WithReportableDetails(map[string]any{
				"total_amount": r.TotalAmount.String(),
			}).
			Mark(ierr.ErrInvalidAmount)
	}

	down := r.DownPayment.Split().Total()
	switch r.PurchaseType {
	case types.PurchaseTypeFull:
		if r.Installments != nil {
			return ierr.NewError("installments given for a full payment sale").
				WithHint("Installment terms are only accepted for EMI sales").
				Mark(ierr.ErrValidation)
		}
		if !down.Equal(r.TotalAmount) {
			return ierr.NewError("down payment does not match total").
				WithHint("A full payment sale must be paid in full").
				WithReportableDetails(map[string]any{
					"total_amount": r.TotalAmount.String(),
					"down_payment": down.String(),
				}).
				Mark(ierr.ErrInvalidAmount)
		}
	case types.PurchaseTypeEMI:
		if r.Installments == nil {
			return ierr.NewError("installments required for an EMI sale").
				WithHint("EMI sales need installment terms").
				Mark(ierr.ErrValidation)
		}
		if err := validator.ValidateRequest(r.Installments); err != nil {
			return err
		}
		if down.GreaterThan(r.TotalAmount) {
			return ierr.NewError("down payment exceeds total").
				WithHint("Down payment cannot be more than the sale total").
				WithReportableDetails(map[string]any{
					"total_amount": r.TotalAmount.String(),
					"down_payment": down.String(),
				}).
				Mark(ierr.ErrInvalidAmount)
		}
	}
	return nil
}

// ToSale builds the sale record; EMI sales start active, full sales are completed
func (r *RecordSaleRequest) ToSale(ctx context.Context, orderNumber int64, customerName string, schedule *installment.Schedule) *sale.Sale {
	status := types.SaleStatusCompleted
	if r.PurchaseType == types.PurchaseTypeEMI {
		status = types.SaleStatusActive
	}
	return &sale.Sale{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SALE),
		OrderNumber:    orderNumber,
		CustomerRef:    r.CustomerRef,
		CustomerName:   customerName,
		VehicleRef:     r.VehicleID,
		PurchaseType:   r.PurchaseType,
		TotalAmount:    r.TotalAmount,
		DownCashAmount: r.DownPayment.Cash,
		DownBankAmount: r.DownPayment.Bank,
		Schedule:       schedule,
		SaleDate:       r.SaleDate.UTC(),
		Status:         status,
		DocumentRefs:   types.StringList(r.DocumentRefs),
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

// RecordEmiPaymentRequest pays one installment of an EMI sale
type RecordEmiPaymentRequest struct {
	CashAmount  decimal.Decimal `json:"cash_amount" swaggertype:"string"`
	BankAmount  decimal.Decimal `json:"bank_amount" swaggertype:"string"`
	PaymentDate time.Time       `json:"payment_date" validate:"required"`
	Note        string          `json:"note,omitempty" validate:"max=1000"`
}

func (r *RecordEmiPaymentRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// SaleResponse is a sale with its derived overdue flag
type SaleResponse struct {
	*sale.Sale
	Overdue        bool     `json:"overdue"`
	TransactionIDs []string `json:"transaction_ids,omitempty"`
}

// NewSaleResponse evaluates overdue against now
func NewSaleResponse(s *sale.Sale, now time.Time) *SaleResponse {
	return &SaleResponse{
		Sale:    s,
		Overdue: s.IsOverdue(now),
	}
}
