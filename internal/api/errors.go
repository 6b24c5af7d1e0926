package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inventory-api/internal/service"
	"github.com/inventory-api/internal/validation"
	"github.com/rs/zerolog"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error     string   `json:"error"`
	Message   string   `json:"message"`
	Details   []string `json:"details"`
	Timestamp string   `json:"timestamp"`
}

func writeError(c *gin.Context, status int, name, message string, details []string) {
	if details == nil {
		details = []string{}
	}
	c.JSON(status, ErrorResponse{
		Error:     name,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func writeValidationError(c *gin.Context, fields []validation.FieldError) {
	writeError(c, http.StatusBadRequest, "Validation Failed", "request validation failed", validation.Messages(fields))
}

// respondError maps a service error onto a status code and the error envelope
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(c, verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		writeError(c, http.StatusNotFound, "Not Found", err.Error(), nil)
	case errors.Is(err, service.ErrConflict):
		writeError(c, http.StatusConflict, "Conflict", err.Error(), nil)
	case errors.Is(err, service.ErrInsufficientStock):
		writeError(c, http.StatusBadRequest, "Insufficient Stock", err.Error(), nil)
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString(requestIDKey)).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		writeError(c, http.StatusInternalServerError, "Internal Server Error", "an unexpected error occurred", nil)
	}
}
