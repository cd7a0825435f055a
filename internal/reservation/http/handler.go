package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-backend/internal/pkg/response"
	"github.com/nekogravitycat/rental-backend/internal/reservation"
)

type Handler struct {
	service reservation.Service
}

func NewHandler(service reservation.Service) *Handler {
	return &Handler{service: service}
}

// Create books an apartment for a contact.
func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), reservation.CreateRequest{
		ApartmentID: body.ApartmentID,
		ContactID:   body.ContactID,
		CheckIn:     body.CheckInDate,
		CheckOut:    body.CheckOutDate,
		Guests:      body.Guests,
		Channel:     body.Channel,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateReservationResponse{
		ID:         res.ID,
		TotalPrice: res.TotalPrice,
		Message:    "reservation created successfully",
	})
}

// List returns every reservation, newest first.
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newReservationList(items))
}

// Search returns reservations in a city overlapping [startDate, endDate).
func (h *Handler) Search(c *gin.Context) {
	var req SearchReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "startDate, endDate and city are required; dates use YYYY-MM-DD", err)
		return
	}

	// Already checked by the calendar_date binding.
	start, _ := time.Parse(request.DateLayout, req.StartDate)
	end, _ := time.Parse(request.DateLayout, req.EndDate)

	items, err := h.service.Search(c.Request.Context(), reservation.SearchFilter{
		City:  req.City,
		Start: start,
		End:   end,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newReservationList(items))
}
