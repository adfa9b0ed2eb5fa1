package person

import (
	"context"
	"time"

	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/shopspring/decimal"
)

// Person is a customer or broker with a running balance owed to or by the dealership
type Person struct {
	ID      string           `db:"id" json:"id"`
	Name    string           `db:"name" json:"name"`
	Kind    types.PersonKind `db:"kind" json:"kind"`
	Phone   string           `db:"phone" json:"phone"`
	Balance decimal.Decimal  `db:"balance" json:"balance" swaggertype:"string"`
	Version int64            `db:"version" json:"version"`
	types.BaseModel
}

// Apply adjusts the running balance
func (p *Person) Apply(ctx context.Context, delta decimal.Decimal) {
	p.Balance = p.Balance.Add(delta)
	p.Touch(ctx, time.Now())
}
