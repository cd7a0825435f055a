package reservation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/rental-backend/internal/apartment"
	"github.com/nekogravitycat/rental-backend/internal/logging"
	"github.com/nekogravitycat/rental-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/rental-backend/internal/pkg/request"
)

// CreateRequest carries a booking as received on the wire.
type CreateRequest struct {
	ApartmentID string
	ContactID   string
	CheckIn     string
	CheckOut    string
	Guests      int
	Channel     string
}

// ApartmentLookup resolves the rate and capacity of an apartment.
type ApartmentLookup interface {
	GetByID(ctx context.Context, id string) (*apartment.Apartment, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	List(ctx context.Context) ([]*Reservation, error)
	Search(ctx context.Context, filter SearchFilter) ([]*Reservation, error)
}

type service struct {
	repo       Repository
	apartments ApartmentLookup
}

func NewService(repo Repository, apartments ApartmentLookup) Service {
	return &service{
		repo:       repo,
		apartments: apartments,
	}
}

// Create validates and stores a reservation. Checks run in a fixed order and
// the first failure is returned. Nothing is written unless every check passes.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	// 1. Shape
	res, err := parseCreateRequest(req)
	if err != nil {
		return nil, err
	}

	// 2. Date range
	if !res.CheckOut.After(res.CheckIn) {
		return nil, ErrInvalidDateRange
	}

	// 3. Apartment
	apt, err := s.apartments.GetByID(ctx, res.ApartmentID)
	if err != nil {
		if errors.Is(err, apartment.ErrNotFound) {
			return nil, ErrApartmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch apartment: %w", err)
	}

	// 4. Capacity, inclusive
	if res.Guests > apt.MaxGuests {
		return nil, apperror.Wrap(ErrCapacityExceeded, http.StatusBadRequest,
			fmt.Sprintf("number of guests (%d) exceeds apartment capacity (%d)", res.Guests, apt.MaxGuests))
	}

	// 5. Conflict, price and insert under the apartment lock. A missing
	// contact is a referential failure and ranks after the conflict.
	err = s.repo.Book(ctx, res.ApartmentID, func(ctx context.Context, tx Tx) error {
		conflict, err := tx.HasConflict(ctx, res.ApartmentID, res.CheckIn, res.CheckOut, "")
		if err != nil {
			return err
		}
		if conflict {
			return ErrDateConflict
		}

		ok, err := tx.ContactExists(ctx, res.ContactID)
		if err != nil {
			return fmt.Errorf("failed to check contact: %w", err)
		}
		if !ok {
			return ErrInvalidContact
		}

		res.TotalPrice, err = CalculatePrice(res.CheckIn, res.CheckOut, apt.DailyRate)
		if err != nil {
			return err
		}

		return tx.Insert(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"apartment_id":   res.ApartmentID,
		"nights":         Nights(res.CheckIn, res.CheckOut),
		"channel":        res.Channel,
	}).Info("reservation created")

	return res, nil
}

func (s *service) List(ctx context.Context) ([]*Reservation, error) {
	return s.repo.List(ctx)
}

func (s *service) Search(ctx context.Context, filter SearchFilter) ([]*Reservation, error) {
	filter.City = strings.TrimSpace(filter.City)
	if filter.City == "" || filter.Start.IsZero() || filter.End.IsZero() {
		return nil, ErrInvalidInput
	}
	if filter.End.Before(filter.Start) {
		return nil, ErrInvalidSearch
	}
	return s.repo.Search(ctx, filter)
}

func parseCreateRequest(req CreateRequest) (*Reservation, error) {
	apartmentID := strings.TrimSpace(req.ApartmentID)
	contactID := strings.TrimSpace(req.ContactID)
	channel := strings.TrimSpace(req.Channel)

	switch {
	case apartmentID == "", contactID == "", req.CheckIn == "", req.CheckOut == "", channel == "":
		return nil, invalidInput("missing required fields")
	case uuid.Validate(apartmentID) != nil:
		return nil, invalidInput("apartment_id must be a valid UUID")
	case uuid.Validate(contactID) != nil:
		return nil, invalidInput("contact_id must be a valid UUID")
	case req.Guests <= 0:
		return nil, invalidInput("guests must be a positive integer")
	}

	checkIn, err := time.Parse(request.DateLayout, req.CheckIn)
	if err != nil {
		return nil, invalidInput("checkin_date must use the YYYY-MM-DD format")
	}
	checkOut, err := time.Parse(request.DateLayout, req.CheckOut)
	if err != nil {
		return nil, invalidInput("checkout_date must use the YYYY-MM-DD format")
	}

	return &Reservation{
		ApartmentID: apartmentID,
		ContactID:   contactID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      req.Guests,
		Channel:     channel,
	}, nil
}

func invalidInput(msg string) error {
	return apperror.Wrap(ErrInvalidInput, http.StatusBadRequest, msg)
}
