package inventory

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/samber/lo"
)

// Item is the stock count of one model within a summary
type Item struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Items is stored as a JSON column
type Items []Item

// Scan implements the sql.Scanner interface for Items
func (i *Items) Scan(value interface{}) error {
	if value == nil {
		*i = Items{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal inventory items: %v", value)
	}

	result := Items{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*i = result
	return nil
}

// Value implements the driver.Valuer interface for Items
func (i Items) Value() (driver.Value, error) {
	if i == nil {
		return "[]", nil
	}
	b, err := json.Marshal(i)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Summary counts the vehicles in stock for one brand and category
type Summary struct {
	ID       string `db:"id" json:"id"`
	Brand    string `db:"brand" json:"brand"`
	Category string `db:"category" json:"category"`
	Items    Items  `db:"items" json:"items"`
	Version  int64  `db:"version" json:"version"`
	types.BaseModel
}

// NewSummary returns an empty unsaved summary
func NewSummary(ctx context.Context, id, brand, category string) *Summary {
	if id == "" {
		id = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUMMARY)
	}
	return &Summary{
		ID:        id,
		Brand:     brand,
		Category:  category,
		Items:     Items{},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// Quantity returns the stock of itemID, zero when absent
func (s *Summary) Quantity(itemID string) int {
	item, ok := lo.Find(s.Items, func(i Item) bool { return i.ItemID == itemID })
	if !ok {
		return 0
	}
	return item.Quantity
}

// Intake adds one unit of itemID, creating the entry when needed
func (s *Summary) Intake(ctx context.Context, itemID string) {
	_, idx, ok := lo.FindIndexOf(s.Items, func(i Item) bool { return i.ItemID == itemID })
	if ok {
		s.Items[idx].Quantity++
	} else {
		s.Items = append(s.Items, Item{ItemID: itemID, Quantity: 1})
	}
	s.Touch(ctx, time.Now())
}

// Dispose removes one unit of itemID. The entry is dropped when it reaches zero.
func (s *Summary) Dispose(ctx context.Context, itemID string) error {
	_, idx, ok := lo.FindIndexOf(s.Items, func(i Item) bool { return i.ItemID == itemID })
	if !ok || s.Items[idx].Quantity <= 0 {
		return ierr.NewError("item out of stock").
			WithHintf("No %s left in stock", itemID).
			WithReportableDetails(map[string]any{
				"summary_id": s.ID,
				"item_id":    itemID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	s.Items[idx].Quantity--
	if s.Items[idx].Quantity == 0 {
		s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
	}
	s.Touch(ctx, time.Now())
	return nil
}

// IsNew reports whether the summary has never been persisted
func (s *Summary) IsNew() bool {
	return s.Version == 0
}

// Vehicle is a single chassis held in inventory
type Vehicle struct {
	ID            string              `db:"id" json:"id"`
	SummaryID     string              `db:"summary_id" json:"summary_id"`
	ItemID        string              `db:"item_id" json:"item_id"`
	ChassisNumber string              `db:"chassis_number" json:"chassis_number"`
	EngineNumber  string              `db:"engine_number" json:"engine_number"`
	Color         string              `db:"color" json:"color"`
	ModelYear     int                 `db:"model_year" json:"model_year"`
	Description   string              `db:"description" json:"description"`
	PurchaseID    string              `db:"purchase_id" json:"purchase_id"`
	SaleID        *string             `db:"sale_id" json:"sale_id,omitempty"`
	Status        types.VehicleStatus `db:"status" json:"status"`
	DocumentRefs  types.StringList    `db:"document_refs" json:"document_refs"`
	Version       int64               `db:"version" json:"version"`
	types.BaseModel
}

// MarkSold records the sale that took the vehicle out of stock
func (v *Vehicle) MarkSold(ctx context.Context, saleID string) error {
	if v.Status != types.VehicleStatusInStock {
		return ierr.NewError("vehicle is not in stock").
			WithHintf("Vehicle %s has already been sold", v.ChassisNumber).
			WithReportableDetails(map[string]any{
				"vehicle_id": v.ID,
				"status":     v.Status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	v.Status = types.VehicleStatusSold
	v.SaleID = lo.ToPtr(saleID)
	v.Touch(ctx, time.Now())
	return nil
}

// IsNew reports whether the vehicle has never been persisted
func (v *Vehicle) IsNew() bool {
	return v.Version == 0
}
