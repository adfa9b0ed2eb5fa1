package sequence

import "context"

// Repository persists counters with optimistic versioning.
// Save inserts new counters and otherwise updates only when the stored
// version still matches c.Version; on success c.Version is advanced.
type Repository interface {
	Get(ctx context.Context, id string) (*Counter, error)
	Save(ctx context.Context, c *Counter) error
}
