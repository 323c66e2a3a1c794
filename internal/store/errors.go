package store

import "github.com/ayoisaiah/drills/internal/apperr"

var (
	errAlreadyRunning = &apperr.Error{
		Message: "is drills already running? Only one instance can use the data file at a time",
	}

	errOpenDB = &apperr.Error{
		Message: "could not open the data file at %s",
	}

	errNoSnapshot = &apperr.Error{
		Message: "no saved copy of %s is available",
	}

	errCorruptRecord = &apperr.Error{
		Message: "saved %s record is unreadable",
	}
)

// ErrNoSnapshot is returned by LoadSnapshot when nothing was saved for a key.
var ErrNoSnapshot = errNoSnapshot
