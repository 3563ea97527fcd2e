package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// HTTPError is an error that already knows its HTTP status
type HTTPError struct {
	Status  int
	Message string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(status int, message string) *HTTPError {
	if message == "" {
		message = defaultMessage(status)
	}
	return &HTTPError{Status: status, Message: message}
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Invalid request"
	case http.StatusUnauthorized:
		return "Authentication required"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusConflict:
		return "Resource conflict"
	case http.StatusTooManyRequests:
		return "Too many requests"
	case http.StatusServiceUnavailable:
		return "Service temporarily unavailable"
	default:
		return "Internal server error"
	}
}

// Predefined errors
var (
	ErrUnauthorized  = NewHTTPError(http.StatusUnauthorized, "")
	ErrForbidden     = NewHTTPError(http.StatusForbidden, "")
	ErrInternalError = NewHTTPError(http.StatusInternalServerError, "")
)

// RespondWithError sends an error envelope
func RespondWithError(c *gin.Context, err *HTTPError) {
	c.JSON(err.Status, Envelope{Success: false, Message: err.Message})
}

// OK sends a 200 envelope
func OK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 envelope
func Created(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	RespondWithError(c, NewHTTPError(http.StatusUnauthorized, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	RespondWithError(c, NewHTTPError(http.StatusForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	RespondWithError(c, NewHTTPError(http.StatusNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	RespondWithError(c, NewHTTPError(http.StatusBadRequest, message))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	RespondWithError(c, NewHTTPError(http.StatusConflict, message))
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context, message string) {
	RespondWithError(c, NewHTTPError(http.StatusTooManyRequests, message))
}

// InternalError sends a 500 response. The message is always generic.
func InternalError(c *gin.Context) {
	RespondWithError(c, ErrInternalError)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	RespondWithError(c, NewHTTPError(http.StatusServiceUnavailable, message))
}
