package sqlstore

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/database"
	"github.com/dealerbook/dealerbook/internal/domain/sequence"
	"github.com/dealerbook/dealerbook/internal/logger"
)

type sequenceRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewSequenceRepository creates a new instance of the counter repository
func NewSequenceRepository(db *database.DB, logger *logger.Logger) sequence.Repository {
	return &sequenceRepository{db: db, logger: logger}
}

func (r *sequenceRepository) Get(ctx context.Context, id string) (*sequence.Counter, error) {
	query := `
		SELECT id, value, version, created_at, updated_at
		FROM sequence_counters
		WHERE id = :id`

	var c sequence.Counter
	err := r.db.GetQuerier(ctx).NamedGetContext(ctx, &c, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, getError(err, "sequence_counters", id, "get sequence counter")
	}
	return &c, nil
}

func (r *sequenceRepository) Save(ctx context.Context, c *sequence.Counter) error {
	q := r.db.GetQuerier(ctx)

	r.logger.Debugw("saving sequence counter",
		"sequence_id", c.ID,
		"value", c.Value,
		"version", c.Version,
	)

	if c.IsNew() {
		query := `
			INSERT INTO sequence_counters (id, value, version, created_at, updated_at)
			VALUES (:id, :value, 1, :created_at, :updated_at)`

		if _, err := q.NamedExecContext(ctx, query, c); err != nil {
			return database.ClassifyError(err, "insert sequence counter")
		}
		c.Version = 1
		return nil
	}

	query := `
		UPDATE sequence_counters
		SET value = :value, version = version + 1, updated_at = :updated_at
		WHERE id = :id AND version = :version`

	result, err := q.NamedExecContext(ctx, query, c)
	if err != nil {
		return database.ClassifyError(err, "update sequence counter")
	}
	if err := checkVersioned(result, "sequence_counters", c.ID, c.Version); err != nil {
		return err
	}
	c.Version++
	return nil
}
