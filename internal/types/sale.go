package types

import (
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/samber/lo"
)

// PurchaseType is how the customer pays for a sale
type PurchaseType string

const (
	PurchaseTypeFull PurchaseType = "FULL"
	PurchaseTypeEMI  PurchaseType = "EMI"
)

func (t PurchaseType) Validate() error {
	allowedValues := []PurchaseType{PurchaseTypeFull, PurchaseTypeEMI}
	if !lo.Contains(allowedValues, t) {
		return ierr.NewError("invalid purchase type").
			WithHint("Purchase type must be FULL or EMI").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SaleStatus tracks whether a sale still expects installments
type SaleStatus string

const (
	SaleStatusActive    SaleStatus = "ACTIVE"
	SaleStatusCompleted SaleStatus = "COMPLETED"
)

// VehicleStatus is the lifecycle of a chassis in inventory
type VehicleStatus string

const (
	VehicleStatusInStock VehicleStatus = "IN_STOCK"
	VehicleStatusSold    VehicleStatus = "SOLD"
)

// PersonKind distinguishes customers from brokers
type PersonKind string

const (
	PersonKindCustomer PersonKind = "CUSTOMER"
	PersonKindBroker   PersonKind = "BROKER"
)

func (k PersonKind) Validate() error {
	allowedValues := []PersonKind{PersonKindCustomer, PersonKindBroker}
	if !lo.Contains(allowedValues, k) {
		return ierr.NewError("invalid person kind").
			WithHint("Person kind must be CUSTOMER or BROKER").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"kind":    k,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// EndpointKind is the side of a funds transfer
type EndpointKind string

const (
	EndpointKindAccount EndpointKind = "ACCOUNT"
	EndpointKindPerson  EndpointKind = "PERSON"
)

func (k EndpointKind) Validate() error {
	allowedValues := []EndpointKind{EndpointKindAccount, EndpointKindPerson}
	if !lo.Contains(allowedValues, k) {
		return ierr.NewError("invalid transfer endpoint kind").
			WithHint("Transfer endpoint must be an ACCOUNT or a PERSON").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"kind":    k,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
