package http

import (
	"time"

	"github.com/nekogravitycat/rental-backend/internal/contact"
	"github.com/nekogravitycat/rental-backend/internal/pkg/request"
)

type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Type      string    `json:"type"`
	Document  *string   `json:"document"`
	CreatedAt time.Time `json:"created_at"`
}

func NewContactResponse(ct *contact.Contact) ContactResponse {
	return ContactResponse{
		ID:        ct.ID,
		Name:      ct.Name,
		Email:     ct.Email,
		Phone:     ct.Phone,
		Type:      ct.Type,
		Document:  ct.Document,
		CreatedAt: ct.CreatedAt,
	}
}

type ListContactsRequest struct {
	request.ListParams
	Keyword string `form:"q"`
}

type CreateContactBody struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone"`
	Type     string  `json:"type" binding:"required,oneof=individual organization"`
	Document *string `json:"document"`
}
