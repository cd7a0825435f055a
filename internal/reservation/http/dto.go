package http

import (
	"time"

	"github.com/nekogravitycat/rental-backend/internal/pkg/money"
	"github.com/nekogravitycat/rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-backend/internal/reservation"
)

// CreateReservationBody has no binding rules; the service validates every
// field in order.
type CreateReservationBody struct {
	ApartmentID  string `json:"apartment_id"`
	ContactID    string `json:"contact_id"`
	CheckInDate  string `json:"checkin_date"`
	CheckOutDate string `json:"checkout_date"`
	Guests       int    `json:"guests"`
	Channel      string `json:"channel"`
}

type CreateReservationResponse struct {
	ID         string      `json:"id"`
	TotalPrice money.Cents `json:"total_price"`
	Message    string      `json:"message"`
}

type SearchReservationsRequest struct {
	StartDate string `form:"startDate" binding:"required,calendar_date"`
	EndDate   string `form:"endDate" binding:"required,calendar_date"`
	City      string `form:"city" binding:"required"`
}

type ReservationResponse struct {
	ID             string      `json:"id"`
	ApartmentID    string      `json:"apartment_id"`
	ApartmentTitle string      `json:"apartment_title"`
	ApartmentCity  string      `json:"apartment_city"`
	ApartmentState string      `json:"apartment_state"`
	ContactID      string      `json:"contact_id"`
	ContactName    string      `json:"contact_name"`
	ContactEmail   string      `json:"contact_email"`
	CheckInDate    string      `json:"checkin_date"`
	CheckOutDate   string      `json:"checkout_date"`
	Guests         int         `json:"guests"`
	TotalPrice     money.Cents `json:"total_price"`
	Channel        string      `json:"channel"`
	CreatedAt      time.Time   `json:"created_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:             r.ID,
		ApartmentID:    r.ApartmentID,
		ApartmentTitle: r.ApartmentTitle,
		ApartmentCity:  r.ApartmentCity,
		ApartmentState: r.ApartmentState,
		ContactID:      r.ContactID,
		ContactName:    r.ContactName,
		ContactEmail:   r.ContactEmail,
		CheckInDate:    r.CheckIn.Format(request.DateLayout),
		CheckOutDate:   r.CheckOut.Format(request.DateLayout),
		Guests:         r.Guests,
		TotalPrice:     r.TotalPrice,
		Channel:        r.Channel,
		CreatedAt:      r.CreatedAt,
	}
}

func newReservationList(items []*reservation.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, len(items))
	for i, r := range items {
		out[i] = NewReservationResponse(r)
	}
	return out
}
