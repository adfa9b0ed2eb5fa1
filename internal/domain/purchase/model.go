package purchase

import (
	"time"

	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/shopspring/decimal"
)

// Purchase is a vehicle bought by the dealership
type Purchase struct {
	ID           string           `db:"id" json:"id"`
	OrderNumber  int64            `db:"order_number" json:"order_number"`
	VehicleID    *string          `db:"vehicle_id" json:"vehicle_id,omitempty"`
	MiddleManRef *string          `db:"middle_man_ref" json:"middle_man_ref,omitempty"`
	SellerName   string           `db:"seller_name" json:"seller_name"`
	TotalAmount  decimal.Decimal  `db:"total_amount" json:"total_amount" swaggertype:"string"`
	CashAmount   decimal.Decimal  `db:"cash_amount" json:"cash_amount" swaggertype:"string"`
	BankAmount   decimal.Decimal  `db:"bank_amount" json:"bank_amount" swaggertype:"string"`
	CreditAmount decimal.Decimal  `db:"credit_amount" json:"credit_amount" swaggertype:"string"`
	BrokerFee    decimal.Decimal  `db:"broker_fee" json:"broker_fee" swaggertype:"string"`
	PurchaseDate time.Time        `db:"purchase_date" json:"purchase_date"`
	DocumentRefs types.StringList `db:"document_refs" json:"document_refs"`
	types.BaseModel
}

// Payment returns how the purchase was paid
func (p *Purchase) Payment() types.PaymentSplit {
	return types.PaymentSplit{
		Cash:   p.CashAmount,
		Bank:   p.BankAmount,
		Credit: p.CreditAmount,
	}
}
