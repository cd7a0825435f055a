package apartment

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/rental-backend/internal/pkg/money"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "apartment not found")
	ErrEmptyTitle       = apperror.New(http.StatusBadRequest, "title is required")
	ErrEmptyLocation    = apperror.New(http.StatusBadRequest, "city and state are required")
	ErrInvalidMaxGuests = apperror.New(http.StatusBadRequest, "max_guests must be greater than zero")
	ErrInvalidRate      = apperror.New(http.StatusBadRequest, "daily_rate must not be negative")
)

// Apartment is a rentable unit.
type Apartment struct {
	ID        string
	Title     string
	City      string
	State     string
	MaxGuests int
	DailyRate money.Cents
	CreatedAt time.Time
}

// Filter holds the list query options.
type Filter struct {
	City     string
	Page     int
	PageSize int
}

type CreateRequest struct {
	Title     string
	City      string
	State     string
	MaxGuests int
	DailyRate money.Cents
}
