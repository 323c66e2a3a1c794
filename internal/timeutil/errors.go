package timeutil

import "github.com/ayoisaiah/drills/internal/apperr"

var errInvalidSince = &apperr.Error{
	Message: "could not understand the date %q",
}
