package inventory

import "context"

// Repository persists inventory summaries and vehicles.
// Save methods insert new records and otherwise update only when the
// stored version matches, advancing Version on success.
type Repository interface {
	GetSummary(ctx context.Context, id string) (*Summary, error)
	SaveSummary(ctx context.Context, s *Summary) error
	GetVehicle(ctx context.Context, id string) (*Vehicle, error)
	GetVehicleByChassis(ctx context.Context, chassisNumber string) (*Vehicle, error)
	SaveVehicle(ctx context.Context, v *Vehicle) error
}
