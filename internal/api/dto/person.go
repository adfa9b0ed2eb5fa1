package dto

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/domain/person"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/dealerbook/dealerbook/internal/validator"
	"github.com/shopspring/decimal"
)

type CreatePersonRequest struct {
	Name  string           `json:"name" validate:"required,max=255"`
	Kind  types.PersonKind `json:"kind" validate:"required"`
	Phone string           `json:"phone,omitempty" validate:"max=32"`
}

func (r *CreatePersonRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Kind.Validate()
}

func (r *CreatePersonRequest) ToPerson(ctx context.Context) *person.Person {
	return &person.Person{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PERSON),
		Name:      r.Name,
		Kind:      r.Kind,
		Phone:     r.Phone,
		Balance:   decimal.Zero,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

type PersonResponse struct {
	*person.Person
}
