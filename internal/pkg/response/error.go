package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/rental-backend/internal/logging"
	"github.com/nekogravitycat/rental-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// Server-side failures are logged with full detail and returned as an opaque message.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && !appErr.IsServerError() {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	logging.FromContext(c.Request.Context()).WithError(err).Error("internal error")

	status := http.StatusInternalServerError
	if appErr != nil {
		status = appErr.Code
	}
	c.JSON(status, ErrorResponse{Error: "internal server error"})
}

// BadRequest sends a 400 with a message and optional binding details.
func BadRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
