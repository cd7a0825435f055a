package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/rental-backend/internal/apartment"
	"github.com/nekogravitycat/rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-backend/internal/pkg/response"
)

type Handler struct {
	service apartment.Service
}

func NewHandler(service apartment.Service) *Handler {
	return &Handler{service: service}
}

// List retrieves a paginated list of apartments ordered by title.
func (h *Handler) List(c *gin.Context) {
	var req ListApartmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter := apartment.Filter{
		City:     req.City,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	apartments, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ApartmentResponse, len(apartments))
	for i, a := range apartments {
		items[i] = NewApartmentResponse(a)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewApartmentResponse(a))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateApartmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	a, err := h.service.Create(c.Request.Context(), apartment.CreateRequest{
		Title:     body.Title,
		City:      body.City,
		State:     body.State,
		MaxGuests: body.MaxGuests,
		DailyRate: *body.DailyRate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewApartmentResponse(a))
}
