package person

import "context"

type Repository interface {
	Create(ctx context.Context, p *Person) error
	Get(ctx context.Context, id string) (*Person, error)
	// Update persists the person when the stored version matches p.Version
	Update(ctx context.Context, p *Person) error
}
