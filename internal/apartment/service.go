package apartment

import (
	"context"
	"strings"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Apartment, error)
	GetByID(ctx context.Context, id string) (*Apartment, error)
	List(ctx context.Context, filter Filter) ([]*Apartment, int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Apartment, error) {
	a := &Apartment{
		Title:     strings.TrimSpace(req.Title),
		City:      strings.TrimSpace(req.City),
		State:     strings.TrimSpace(req.State),
		MaxGuests: req.MaxGuests,
		DailyRate: req.DailyRate,
	}

	if a.Title == "" {
		return nil, ErrEmptyTitle
	}
	if a.City == "" || a.State == "" {
		return nil, ErrEmptyLocation
	}
	if a.MaxGuests <= 0 {
		return nil, ErrInvalidMaxGuests
	}
	if a.DailyRate < 0 {
		return nil, ErrInvalidRate
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID is the lookup the booking flow uses for rate and capacity.
func (s *service) GetByID(ctx context.Context, id string) (*Apartment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Apartment, int, error) {
	filter.City = strings.TrimSpace(filter.City)
	return s.repo.List(ctx, filter)
}
