package sequence

import (
	"time"
)

// Counter is a named, strictly increasing sequence. Purchases and sales
// share the "order" counter.
type Counter struct {
	ID        string    `db:"id" json:"id"`
	Value     int64     `db:"value" json:"value"`
	Version   int64     `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// New returns an unsaved counter starting at zero
func New(id string, now time.Time) *Counter {
	return &Counter{
		ID:        id,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// Next advances the counter and returns the value to hand out
func (c *Counter) Next(now time.Time) int64 {
	c.Value++
	c.UpdatedAt = now.UTC()
	return c.Value
}

// IsNew reports whether the counter has never been persisted
func (c *Counter) IsNew() bool {
	return c.Version == 0
}
