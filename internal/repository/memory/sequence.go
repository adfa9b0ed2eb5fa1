package memory

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/domain/sequence"
	"github.com/dealerbook/dealerbook/internal/logger"
)

type sequenceRepository struct {
	store  *Store
	logger *logger.Logger
}

// NewSequenceRepository creates a counter repository backed by store
func NewSequenceRepository(store *Store, logger *logger.Logger) sequence.Repository {
	return &sequenceRepository{store: store, logger: logger}
}

func (r *sequenceRepository) Get(ctx context.Context, id string) (*sequence.Counter, error) {
	var c sequence.Counter
	if err := r.store.get(ctx, TableSequences, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sequenceRepository) Save(ctx context.Context, c *sequence.Counter) error {
	expected := c.Version
	c.Version = expected + 1
	if err := r.store.put(ctx, TableSequences, c.ID, expected, c); err != nil {
		c.Version = expected
		return err
	}
	r.logger.Debugw("saved sequence counter", "sequence_id", c.ID, "value", c.Value)
	return nil
}
