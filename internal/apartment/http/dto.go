package http

import (
	"time"

	"github.com/nekogravitycat/rental-backend/internal/apartment"
	"github.com/nekogravitycat/rental-backend/internal/pkg/money"
	"github.com/nekogravitycat/rental-backend/internal/pkg/request"
)

type ApartmentResponse struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	City      string      `json:"city"`
	State     string      `json:"state"`
	MaxGuests int         `json:"max_guests"`
	DailyRate money.Cents `json:"daily_rate"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewApartmentResponse(a *apartment.Apartment) ApartmentResponse {
	return ApartmentResponse{
		ID:        a.ID,
		Title:     a.Title,
		City:      a.City,
		State:     a.State,
		MaxGuests: a.MaxGuests,
		DailyRate: a.DailyRate,
		CreatedAt: a.CreatedAt,
	}
}

type ListApartmentsRequest struct {
	request.ListParams
	City string `form:"city"`
}

type CreateApartmentBody struct {
	Title     string       `json:"title" binding:"required"`
	City      string       `json:"city" binding:"required"`
	State     string       `json:"state" binding:"required"`
	MaxGuests int          `json:"max_guests" binding:"required,gt=0"`
	DailyRate *money.Cents `json:"daily_rate" binding:"required"`
}
