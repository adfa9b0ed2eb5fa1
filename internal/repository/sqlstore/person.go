package sqlstore

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/database"
	"github.com/dealerbook/dealerbook/internal/domain/person"
	"github.com/dealerbook/dealerbook/internal/logger"
)

type personRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPersonRepository creates a new instance of the person repository
func NewPersonRepository(db *database.DB, logger *logger.Logger) person.Repository {
	return &personRepository{db: db, logger: logger}
}

const personColumns = `id, name, kind, phone, balance, version, created_at, updated_at, created_by, updated_by`

func (r *personRepository) Create(ctx context.Context, p *person.Person) error {
	query := `
		INSERT INTO persons (` + personColumns + `)
		VALUES (:id, :name, :kind, :phone, :balance, 1, :created_at, :updated_at, :created_by, :updated_by)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p); err != nil {
		return database.ClassifyError(err, "insert person")
	}
	p.Version = 1
	return nil
}

func (r *personRepository) Get(ctx context.Context, id string) (*person.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = :id`

	var p person.Person
	err := r.db.GetQuerier(ctx).NamedGetContext(ctx, &p, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, getError(err, "persons", id, "get person")
	}
	return &p, nil
}

func (r *personRepository) Update(ctx context.Context, p *person.Person) error {
	query := `
		UPDATE persons
		SET name = :name, phone = :phone, balance = :balance, version = version + 1,
			updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id AND version = :version`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p)
	if err != nil {
		return database.ClassifyError(err, "update person")
	}
	if err := checkVersioned(result, "persons", p.ID, p.Version); err != nil {
		return err
	}
	p.Version++
	return nil
}
