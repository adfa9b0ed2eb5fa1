package sale

import "context"

// Repository persists sales. Update succeeds only when the stored version
// matches s.Version and advances it.
type Repository interface {
	Create(ctx context.Context, s *Sale) error
	Get(ctx context.Context, id string) (*Sale, error)
	Update(ctx context.Context, s *Sale) error
}
