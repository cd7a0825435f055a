package reservation

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/rental-backend/internal/pkg/money"
)

var (
	ErrInvalidInput      = apperror.New(http.StatusBadRequest, "invalid input parameters")
	ErrInvalidDateRange  = apperror.New(http.StatusBadRequest, "invalid date range: checkout_date must be after checkin_date")
	ErrApartmentNotFound = apperror.New(http.StatusNotFound, "apartment not found")
	ErrCapacityExceeded  = apperror.New(http.StatusBadRequest, "number of guests exceeds apartment capacity")
	ErrInvalidContact    = apperror.New(http.StatusBadRequest, "contact not found")
	ErrDateConflict      = apperror.New(http.StatusConflict, "apartment already booked for requested dates")
	ErrInvalidReference  = apperror.New(http.StatusBadRequest, "invalid apartment_id or contact_id")
	ErrInvalidRange      = apperror.New(http.StatusBadRequest, "stay must be at least one night")
	ErrInvalidSearch     = apperror.New(http.StatusBadRequest, "endDate must not be before startDate")
)

// Reservation is a confirmed stay. Display fields are filled by list queries only.
type Reservation struct {
	ID          string
	ApartmentID string
	ContactID   string
	CheckIn     time.Time
	CheckOut    time.Time
	Guests      int
	TotalPrice  money.Cents
	Channel     string
	CreatedAt   time.Time

	ApartmentTitle string
	ApartmentCity  string
	ApartmentState string
	ContactName    string
	ContactEmail   string
}

// DateRange is the half-open interval [Start, End) of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two stays share at least one night.
// The checkout day of one stay is free for the check-in of another.
func Overlaps(a, b DateRange) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// SearchFilter selects reservations in City that overlap [Start, End).
type SearchFilter struct {
	City  string
	Start time.Time
	End   time.Time
}

type ChannelSummary struct {
	Channel string
	Count   int
	Revenue money.Cents
}

type CityCount struct {
	City  string
	Count int
}
