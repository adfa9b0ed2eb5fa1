package service

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/api/dto"
)

type PersonService interface {
	CreatePerson(ctx context.Context, req *dto.CreatePersonRequest) (*dto.PersonResponse, error)
	GetPerson(ctx context.Context, id string) (*dto.PersonResponse, error)
}

type personService struct {
	ServiceParams
}

func NewPersonService(params ServiceParams) PersonService {
	return &personService{
		ServiceParams: params,
	}
}

func (s *personService) CreatePerson(ctx context.Context, req *dto.CreatePersonRequest) (*dto.PersonResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPerson(ctx)
	if err := s.PersonRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("created person", "person_id", p.ID, "kind", p.Kind)
	return &dto.PersonResponse{Person: p}, nil
}

func (s *personService) GetPerson(ctx context.Context, id string) (*dto.PersonResponse, error) {
	if err := validateID("person id", id); err != nil {
		return nil, err
	}
	p, err := s.PersonRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.PersonResponse{Person: p}, nil
}
