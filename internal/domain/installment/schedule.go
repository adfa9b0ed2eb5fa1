package installment

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Schedule tracks the installments of an EMI sale.
// PaidInstallments + RemainingInstallments always equals TotalInstallments.
type Schedule struct {
	InterestRate          decimal.Decimal `json:"interest_rate" swaggertype:"string"`
	Frequency             types.Frequency `json:"frequency"`
	TotalInstallments     int             `json:"total_installments"`
	InstallmentAmount     decimal.Decimal `json:"installment_amount" swaggertype:"string"`
	NextDueDate           time.Time       `json:"next_due_date"`
	LastPaidDate          *time.Time      `json:"last_paid_date,omitempty"`
	PaidInstallments      int             `json:"paid_installments"`
	RemainingInstallments int             `json:"remaining_installments"`
}

// NewSchedule validates the terms and returns a schedule with nothing paid
func NewSchedule(interestRate decimal.Decimal, frequency types.Frequency, total int, amount decimal.Decimal, firstDueDate time.Time) (*Schedule, error) {
	if err := frequency.Validate(); err != nil {
		return nil, err
	}
	if total < 1 {
		return nil, ierr.NewError("total installments must be at least 1").
			WithHint("An installment plan needs at least one installment").
			WithReportableDetails(map[string]any{"total_installments": total}).
			Mark(ierr.ErrValidation)
	}
	if !amount.IsPositive() {
		return nil, ierr.NewError("installment amount must be positive").
			WithHint("Installment amount must be greater than zero").
			WithReportableDetails(map[string]any{"installment_amount": amount.String()}).
			Mark(ierr.ErrInvalidAmount)
	}
	if interestRate.IsNegative() {
		return nil, ierr.NewError("interest rate must not be negative").
			WithHint("Interest rate must not be negative").
			Mark(ierr.ErrInvalidAmount)
	}
	if firstDueDate.IsZero() {
		return nil, ierr.NewError("first due date is required").
			WithHint("First due date is required").
			Mark(ierr.ErrValidation)
	}

	return &Schedule{
		InterestRate:          interestRate,
		Frequency:             frequency,
		TotalInstallments:     total,
		InstallmentAmount:     amount,
		NextDueDate:           firstDueDate.UTC(),
		RemainingInstallments: total,
	}, nil
}

// RecordPayment returns the schedule after one more installment is paid.
// The receiver is left untouched so a failed event leaves nothing behind.
func (s Schedule) RecordPayment(cashAmount, bankAmount decimal.Decimal, paymentDate time.Time) (*Schedule, error) {
	if cashAmount.IsNegative() || bankAmount.IsNegative() || !cashAmount.Add(bankAmount).IsPositive() {
		return nil, ierr.NewError("payment amount must be positive").
			WithHint("Cash and bank amounts must add up to more than zero").
			WithReportableDetails(map[string]any{
				"cash_amount": cashAmount.String(),
				"bank_amount": bankAmount.String(),
			}).
			Mark(ierr.ErrInvalidAmount)
	}
	if s.IsComplete() {
		return nil, ierr.NewError("installment schedule already completed").
			WithHint("All installments of this sale have been paid").
			WithReportableDetails(map[string]any{
				"total_installments": s.TotalInstallments,
				"paid_installments":  s.PaidInstallments,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	next := s
	next.PaidInstallments++
	next.RemainingInstallments--
	next.LastPaidDate = lo.ToPtr(paymentDate.UTC())
	next.NextDueDate = s.Frequency.Advance(s.NextDueDate)
	return &next, nil
}

// IsComplete reports whether nothing remains to be paid
func (s *Schedule) IsComplete() bool {
	return s.RemainingInstallments <= 0
}

// IsOverdue reports whether the next installment was due before now's day
func (s *Schedule) IsOverdue(now time.Time) bool {
	if s.IsComplete() {
		return false
	}
	return types.StartOfDay(now.UTC()).After(types.StartOfDay(s.NextDueDate.UTC()))
}

// Validate checks the installment counters are consistent
func (s *Schedule) Validate() error {
	if s.PaidInstallments < 0 || s.RemainingInstallments < 0 ||
		s.PaidInstallments+s.RemainingInstallments != s.TotalInstallments {
		return ierr.NewError("inconsistent installment counters").
			WithHint("Installment schedule is corrupted").
			WithReportableDetails(map[string]any{
				"total_installments":     s.TotalInstallments,
				"paid_installments":      s.PaidInstallments,
				"remaining_installments": s.RemainingInstallments,
			}).
			Mark(ierr.ErrValidation)
	}
	return s.Frequency.Validate()
}

// Scan implements the sql.Scanner interface for the JSON schedule column
func (s *Schedule) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal schedule value: %v", value)
	}
	return json.Unmarshal(raw, s)
}

// Value implements the driver.Valuer interface for the JSON schedule column
func (s Schedule) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
