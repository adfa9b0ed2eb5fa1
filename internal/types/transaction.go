package types

import (
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/samber/lo"
)

// TransactionType is the business event a person transaction records
type TransactionType string

const (
	TransactionTypePurchase   TransactionType = "PURCHASE"
	TransactionTypeSale       TransactionType = "SALE"
	TransactionTypeEmiPayment TransactionType = "EMI_PAYMENT"
	TransactionTypeBrokerFee  TransactionType = "BROKER_FEE"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

func (t TransactionType) Validate() error {
	allowedValues := []TransactionType{
		TransactionTypePurchase,
		TransactionTypeSale,
		TransactionTypeEmiPayment,
		TransactionTypeBrokerFee,
		TransactionTypeTransfer,
	}
	if !lo.Contains(allowedValues, t) {
		return ierr.NewError("invalid transaction type").
			WithHint("Invalid transaction type").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TransactionStatus is the only mutable column of a person transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

func (s TransactionStatus) Validate() error {
	allowedValues := []TransactionStatus{
		TransactionStatusPending,
		TransactionStatusCompleted,
		TransactionStatusCancelled,
	}
	if !lo.Contains(allowedValues, s) {
		return ierr.NewError("invalid transaction status").
			WithHint("Invalid transaction status").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"status":  s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CanTransitionTo reports whether a transaction may move from s to next.
// PENDING settles into COMPLETED or CANCELLED and COMPLETED may still be cancelled.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	switch s {
	case TransactionStatusPending:
		return next == TransactionStatusCompleted || next == TransactionStatusCancelled
	case TransactionStatusCompleted:
		return next == TransactionStatusCancelled
	}
	return false
}

// PaymentMethod describes how money moved for a transaction
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodBank   PaymentMethod = "BANK"
	PaymentMethodCredit PaymentMethod = "CREDIT"
	PaymentMethodMixed  PaymentMethod = "MIXED"
	PaymentMethodPerson PaymentMethod = "PERSON"
)

func (m PaymentMethod) Validate() error {
	allowedValues := []PaymentMethod{
		PaymentMethodCash,
		PaymentMethodBank,
		PaymentMethodCredit,
		PaymentMethodMixed,
		PaymentMethodPerson,
	}
	if !lo.Contains(allowedValues, m) {
		return ierr.NewError("invalid payment method").
			WithHint("Invalid payment method").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"method":  m,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ReferenceType names the record a capital entry was posted for
type ReferenceType string

const (
	ReferenceTypePurchase   ReferenceType = "PURCHASE"
	ReferenceTypeSale       ReferenceType = "SALE"
	ReferenceTypeEmiPayment ReferenceType = "EMI_PAYMENT"
	ReferenceTypeBrokerFee  ReferenceType = "BROKER_FEE"
	ReferenceTypeTransfer   ReferenceType = "TRANSFER"
	ReferenceTypeAdjustment ReferenceType = "ADJUSTMENT"
)
