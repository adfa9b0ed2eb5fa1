package types

import (
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/samber/lo"
)

// AccountName identifies one of the dealership's capital accounts
type AccountName string

const (
	AccountCash   AccountName = "Cash"
	AccountBank   AccountName = "Bank"
	AccountCredit AccountName = "Credit"
)

// AllAccountNames returns every capital account in display order
func AllAccountNames() []AccountName {
	return []AccountName{AccountCash, AccountBank, AccountCredit}
}

func (n AccountName) String() string {
	return string(n)
}

// Validate rejects names outside the closed set of capital accounts
func (n AccountName) Validate() error {
	if !lo.Contains(AllAccountNames(), n) {
		return ierr.NewError("invalid capital account").
			WithHintf("Unknown capital account %q", string(n)).
			WithReportableDetails(map[string]any{
				"allowed": AllAccountNames(),
				"account": n,
			}).
			Mark(ierr.ErrInvalidAccount)
	}
	return nil
}

// PaymentMethod returns the transaction payment method matching the account
func (n AccountName) PaymentMethod() PaymentMethod {
	switch n {
	case AccountCash:
		return PaymentMethodCash
	case AccountBank:
		return PaymentMethodBank
	default:
		return PaymentMethodCredit
	}
}
