package types

import (
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/shopspring/decimal"
)

// PaymentSplit is the amount paid through each capital account.
// Credit is only meaningful on purchases.
type PaymentSplit struct {
	Cash   decimal.Decimal `json:"cash" db:"cash_amount"`
	Bank   decimal.Decimal `json:"bank" db:"bank_amount"`
	Credit decimal.Decimal `json:"credit" db:"credit_amount"`
}

// Total returns the sum of all sides
func (p PaymentSplit) Total() decimal.Decimal {
	return p.Cash.Add(p.Bank).Add(p.Credit)
}

// Amount returns the side paid through the given account
func (p PaymentSplit) Amount(name AccountName) decimal.Decimal {
	switch name {
	case AccountCash:
		return p.Cash
	case AccountBank:
		return p.Bank
	case AccountCredit:
		return p.Credit
	}
	return decimal.Zero
}

// NonZero returns the accounts carrying a non-zero amount, in account order
func (p PaymentSplit) NonZero() []AccountName {
	var out []AccountName
	for _, name := range AllAccountNames() {
		if !p.Amount(name).IsZero() {
			out = append(out, name)
		}
	}
	return out
}

// Method derives the payment method recorded on the transaction
func (p PaymentSplit) Method() PaymentMethod {
	sides := p.NonZero()
	switch len(sides) {
	case 0:
		return PaymentMethodCash
	case 1:
		return sides[0].PaymentMethod()
	default:
		return PaymentMethodMixed
	}
}

// Validate rejects negative sides
func (p PaymentSplit) Validate() error {
	for _, name := range AllAccountNames() {
		if p.Amount(name).IsNegative() {
			return ierr.NewError("payment amount must not be negative").
				WithHintf("%s amount must not be negative", name).
				WithReportableDetails(map[string]any{
					"account": name,
					"amount":  p.Amount(name).String(),
				}).
				Mark(ierr.ErrInvalidAmount)
		}
	}
	return nil
}
