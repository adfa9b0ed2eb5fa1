package memory

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/domain/person"
	"github.com/dealerbook/dealerbook/internal/logger"
)

type personRepository struct {
	store  *Store
	logger *logger.Logger
}

// NewPersonRepository creates a person repository backed by store
func NewPersonRepository(store *Store, logger *logger.Logger) person.Repository {
	return &personRepository{store: store, logger: logger}
}

func (r *personRepository) Create(ctx context.Context, p *person.Person) error {
	p.Version = 1
	if err := r.store.put(ctx, TablePersons, p.ID, 0, p); err != nil {
		p.Version = 0
		return err
	}
	return nil
}

func (r *personRepository) Get(ctx context.Context, id string) (*person.Person, error) {
	var p person.Person
	if err := r.store.get(ctx, TablePersons, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personRepository) Update(ctx context.Context, p *person.Person) error {
	expected := p.Version
	p.Version = expected + 1
	if err := r.store.put(ctx, TablePersons, p.ID, expected, p); err != nil {
		p.Version = expected
		return err
	}
	return nil
}
