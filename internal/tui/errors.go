package tui

import "github.com/ayoisaiah/drills/internal/apperr"

var errRequired = &apperr.Error{
	Message: "%s is required",
}

var errInvalidPrice = &apperr.Error{
	Message: "enter a price of zero or more",
}

var errInvalidEmail = &apperr.Error{
	Message: "enter a valid email address or leave it empty",
}
