package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrUsernameTaken      = apperror.New(http.StatusConflict, "username already exists")
	ErrUsernameRequired   = apperror.New(http.StatusBadRequest, "username is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 6 characters long")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid credentials")
)

// User is an operator of the rental back office.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
