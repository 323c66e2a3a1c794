package refresh

import "github.com/ayoisaiah/drills/internal/apperr"

var (
	errCacheInit = &apperr.Error{
		Message: "could not create the query cache",
	}

	errFetch = &apperr.Error{
		Message: "fetching %s failed",
	}
)
