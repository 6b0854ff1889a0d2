package user

import (
	"context"
	"log"
	"strings"
)

type CreateRequest struct {
	Name  string
	Email string
}

type UpdateRequest struct {
	Name  *string
	Email *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*User, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameBlank
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, ErrEmailBlank
	}

	u := &User{
		Name:  req.Name,
		Email: req.Email,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Printf("created user id=%d, email=%s", u.ID, u.Email)
	return u, nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameBlank
		}
		existing.Name = *req.Name
	}

	if req.Email != nil {
		if strings.TrimSpace(*req.Email) == "" {
			return nil, ErrEmailBlank
		}
		existing.Email = *req.Email
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetAll(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
