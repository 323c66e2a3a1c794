package api

import (
	"fmt"

	"github.com/ayoisaiah/drills/internal/apperr"
)

// DefaultErrorMessage is shown when a failed response has no body.
const DefaultErrorMessage = "Something went wrong"

// Error is returned for every non-2xx response.
type Error struct {
	Body   string
	Method string
	Path   string
	Status int
}

func (e *Error) Error() string {
	if e.Body == "" {
		return DefaultErrorMessage
	}

	return e.Body
}

// Detail includes the request line, for logs.
func (e *Error) Detail() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Error())
}

var (
	errInvalidBaseURL = &apperr.Error{
		Message: "invalid API base URL %q",
	}

	errRequest = &apperr.Error{
		Message: "request to %s failed",
	}

	errDecode = &apperr.Error{
		Message: "could not decode the response from %s",
	}

	errNameRequired = &apperr.Error{
		Message: "first and last name are required",
	}

	errTitleRequired = &apperr.Error{
		Message: "drill title is required",
	}

	errNegativePrice = &apperr.Error{
		Message: "price per minute cannot be negative (got %v)",
	}

	errNoUsers = &apperr.Error{
		Message: "select at least one user",
	}

	errInvalidID = &apperr.Error{
		Message: "invalid %s id: %d",
	}
)
