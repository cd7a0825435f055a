package contact

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "contact not found")
	ErrEmptyName   = apperror.New(http.StatusBadRequest, "name is required")
	ErrEmptyEmail  = apperror.New(http.StatusBadRequest, "email is required")
	ErrInvalidType = apperror.New(http.StatusBadRequest, "type must be individual or organization")
)

const (
	TypeIndividual   = "individual"
	TypeOrganization = "organization"
)

// Contact is the guest or company a reservation is made for.
type Contact struct {
	ID        string
	Name      string
	Email     string
	Phone     *string
	Type      string
	Document  *string
	CreatedAt time.Time
}

type Filter struct {
	Keyword  string
	Page     int
	PageSize int
}

type CreateRequest struct {
	Name     string
	Email    string
	Phone    *string
	Type     string
	Document *string
}
