package dto

import (
	"context"
	"time"

	"github.com/dealerbook/dealerbook/internal/domain/inventory"
	"github.com/dealerbook/dealerbook/internal/domain/purchase"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/dealerbook/dealerbook/internal/validator"
	"github.com/shopspring/decimal"
)

// RecordPurchaseRequest records a vehicle bought by the dealership
type RecordPurchaseRequest struct {
	SellerName   string                `json:"seller_name" validate:"required,max=255"`
	MiddleManRef *string               `json:"middle_man_ref,omitempty"`
	TotalAmount  decimal.Decimal       `json:"total_amount" swaggertype:"string"`
	Payment      types.PaymentSplit    `json:"payment"`
	BrokerFee    decimal.Decimal       `json:"broker_fee" swaggertype:"string"`
	PurchaseDate time.Time             `json:"purchase_date" validate:"required"`
	Vehicle      *VehicleIntakeRequest `json:"vehicle,omitempty"`
	DocumentRefs []string              `json:"document_refs,omitempty"`
}

// VehicleIntakeRequest describes the chassis taken into stock by a purchase.
// The summary is created on first intake when it does not exist yet.
type VehicleIntakeRequest struct {
	SummaryID     string `json:"summary_id" validate:"required"`
	Brand         string `json:"brand" validate:"required"`
	Category      string `json:"category" validate:"required"`
	ItemID        string `json:"item_id" validate:"required"`
	ChassisNumber string `json:"chassis_number" validate:"required"`
	EngineNumber  string `json:"engine_number"`
	Color         string `json:"color"`
	ModelYear     int    `json:"model_year" validate:"omitempty,gte=1900"`
	Description   string `json:"description"`
}

func (r *RecordPurchaseRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Vehicle != nil {
		if err := validator.ValidateRequest(r.Vehicle); err != nil {
			return err
		}
	}
	if err := r.Payment.Validate(); err != nil {
		return err
	}
	if !r.TotalAmount.IsPositive() {
		return ierr.NewError("total amount must be positive").
			WithHint("Purchase total must be greater than zero").
			WithReportableDetails(map[string]any{
				"total_amount": r.TotalAmount.String(),
			}).
			Mark(ierr.ErrInvalidAmount)
	}
	if !r.Payment.Total().Equal(r.TotalAmount) {
		return ierr.NewError("payment split does not match total").
			WithHint("Cash, bank and credit amounts must add up to the purchase total").
			WithReportableDetails(map[string]any{
				"total_amount": r.TotalAmount.String(),
				"split_total":  r.Payment.Total().String(),
			}).
			Mark(ierr.ErrInvalidAmount)
	}
	if r.BrokerFee.IsNegative() {
		return ierr.NewError("broker fee must not be negative").
			WithHint("Broker fee must not be negative").
			Mark(ierr.ErrInvalidAmount)
	}
	return nil
}

// ToPurchase builds the purchase record for the given order number
func (r *RecordPurchaseRequest) ToPurchase(ctx context.Context, orderNumber int64) *purchase.Purchase {
	return &purchase.Purchase{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PURCHASE),
		OrderNumber:  orderNumber,
		MiddleManRef: r.MiddleManRef,
		SellerName:   r.SellerName,
		TotalAmount:  r.TotalAmount,
		CashAmount:   r.Payment.Cash,
		BankAmount:   r.Payment.Bank,
		CreditAmount: r.Payment.Credit,
		BrokerFee:    r.BrokerFee,
		PurchaseDate: r.PurchaseDate.UTC(),
		DocumentRefs: types.StringList(r.DocumentRefs),
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
}

// ToVehicle builds the in-stock vehicle for the purchase
func (r *VehicleIntakeRequest) ToVehicle(ctx context.Context, purchaseID string, documentRefs []string) *inventory.Vehicle {
	return &inventory.Vehicle{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_VEHICLE),
		SummaryID:     r.SummaryID,
		ItemID:        r.ItemID,
		ChassisNumber: r.ChassisNumber,
		EngineNumber:  r.EngineNumber,
		Color:         r.Color,
		ModelYear:     r.ModelYear,
		Description:   r.Description,
		PurchaseID:    purchaseID,
		Status:        types.VehicleStatusInStock,
		DocumentRefs:  types.StringList(documentRefs),
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// PurchaseResponse is the committed purchase with what it created
type PurchaseResponse struct {
	*purchase.Purchase
	Vehicle        *inventory.Vehicle `json:"vehicle,omitempty"`
	TransactionIDs []string           `json:"transaction_ids"`
}
