package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"adapterctl/internal/probe"
)

// Error categories for backend failures
const (
	CategoryNetwork      = "network_error"
	CategoryUnauthorized = "unauthorized"
	CategoryNotFound     = "not_found"
	CategoryServer       = "server_error"
	CategoryBadResponse  = "bad_response"
	CategoryUnknown      = "unknown_error"
)

// User-facing messages for each category
var categoryMessages = map[string]string{
	CategoryNetwork:      "Unable to reach the Meshery server.",
	CategoryUnauthorized: "Not authorized. Log in again with `adapterctl login`.",
	CategoryNotFound:     "The server does not know this endpoint or adapter.",
	CategoryServer:       "The Meshery server reported an internal error.",
	CategoryBadResponse:  "The server response could not be understood.",
	CategoryUnknown:      "An unknown error occurred.",
}

// ErrEmptyLocation is returned when an adapter location is blank.
var ErrEmptyLocation = errors.New("adapter location cannot be empty")

// Error describes a failed backend call.
type Error struct {
	Op         string // e.g. "list available adapters"
	StatusCode int    // 0 when the request never got a response
	Category   string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the friendly message for the error category.
func (e *Error) UserMessage() string {
	return UserMessage(e.Category)
}

// UserMessage returns the friendly message for category.
func UserMessage(category string) string {
	if msg, ok := categoryMessages[category]; ok {
		return msg
	}
	return categoryMessages[CategoryUnknown]
}

// CategorizeStatus maps an HTTP status code to an error category.
//
// - 401, 403 → unauthorized
// - 404 → not_found
// - 500+ → server_error
// - other → unknown_error
func CategorizeStatus(statusCode int) string {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return CategoryUnauthorized
	case http.StatusNotFound:
		return CategoryNotFound
	default:
		if statusCode >= http.StatusInternalServerError {
			return CategoryServer
		}
		return CategoryUnknown
	}
}

func statusError(op string, statusCode int, message string) *Error {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return &Error{
		Op:         op,
		StatusCode: statusCode,
		Category:   CategorizeStatus(statusCode),
		Message:    message,
	}
}

func networkError(op string, err error, timeout time.Duration) *Error {
	return &Error{
		Op:       op,
		Category: CategoryNetwork,
		Message:  probe.Describe(err, timeout),
		Err:      err,
	}
}

func badResponse(op, message string) *Error {
	return &Error{
		Op:       op,
		Category: CategoryBadResponse,
		Message:  message,
	}
}

// IsCategory reports whether err is a *Error of the given category.
func IsCategory(err error, category string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == category
	}
	return false
}
