package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is the application error carried from services up to the HTTP layer.
// Message is safe to return to clients; Err holds internal detail and is only
// ever logged.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error.
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Constructors for the error taxonomy. Validation and conflict failures are
// client errors; upstream and persistence failures surface as generic server
// errors while the wrapped cause stays in the logs.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "You must be logged in to do that"
	}
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden() *Error {
	return New(http.StatusForbidden, "You don't have permission to perform the action", nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// Conflict reports a duplicate create. Reported as 400 to match the public
// API contract.
func Conflict(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

func Upstream(message string, err error) *Error {
	return New(http.StatusBadGateway, message, err)
}

func Persistence(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// Render writes the error as the standard JSON error body.
func Render(c *gin.Context, e *Error) {
	c.JSON(e.Code, gin.H{"error": e.Message})
}
