package contact

import (
	"context"
	"strings"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Contact, error)
	GetByID(ctx context.Context, id string) (*Contact, error)
	List(ctx context.Context, filter Filter) ([]*Contact, int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Contact, error) {
	ct := &Contact{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Phone:    trimOptional(req.Phone),
		Type:     strings.ToLower(strings.TrimSpace(req.Type)),
		Document: trimOptional(req.Document),
	}

	if ct.Name == "" {
		return nil, ErrEmptyName
	}
	if ct.Email == "" {
		return nil, ErrEmptyEmail
	}
	if ct.Type != TypeIndividual && ct.Type != TypeOrganization {
		return nil, ErrInvalidType
	}

	if err := s.repo.Create(ctx, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Contact, int, error) {
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	return s.repo.List(ctx, filter)
}

// trimOptional maps blank optional fields to NULL.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
