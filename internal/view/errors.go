package view

import "github.com/ayoisaiah/drills/internal/apperr"

var (
	errInvalidFilter = &apperr.Error{
		Message: "unknown filter %q (expected all, active or completed)",
	}

	errInvalidOrder = &apperr.Error{
		Message: "unknown sort order %q (expected asc or desc)",
	}

	errInvalidField = &apperr.Error{
		Message: "cannot sort %s by %q",
	}

	errUnknownLocale = &apperr.Error{
		Message: "unknown locale %q",
	}
)
