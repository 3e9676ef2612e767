package utils

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondWithError writes an error body with the given status.
func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// RespondWithFieldErrors writes an error body carrying per-field reasons.
func RespondWithFieldErrors(c *gin.Context, status int, message string, fields map[string]string) {
	c.JSON(status, ErrorResponse{Error: message, Fields: fields})
}

// Page is the envelope for paginated collection responses.
type Page[T any] struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Results  []T   `json:"results"`
}
