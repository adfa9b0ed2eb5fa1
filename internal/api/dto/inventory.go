package dto

import (
	"github.com/dealerbook/dealerbook/internal/domain/inventory"
	"github.com/samber/lo"
)

// SummaryResponse is an inventory summary with its total stock
type SummaryResponse struct {
	*inventory.Summary
	TotalQuantity int `json:"total_quantity"`
}

func NewSummaryResponse(s *inventory.Summary) *SummaryResponse {
	return &SummaryResponse{
		Summary: s,
		TotalQuantity: lo.SumBy(s.Items, func(i inventory.Item) int {
			return i.Quantity
		}),
	}
}

type VehicleResponse struct {
	*inventory.Vehicle
}
