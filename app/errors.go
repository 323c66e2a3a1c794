package app

import "github.com/ayoisaiah/drills/internal/apperr"

var (
	errOffline = &apperr.Error{
		Message: "not available offline: %s needs the backend",
	}

	errHookParse = &apperr.Error{
		Message: "unable to parse hooks.after_mutation",
	}

	errInvalidID = &apperr.Error{
		Message: "expected a numeric %s id, got %q",
	}

	errMissingArg = &apperr.Error{
		Message: "missing %s argument",
	}

	errUnknownUser = &apperr.Error{
		Message: "no user with id %d",
	}

	errUnknownDrill = &apperr.Error{
		Message: "no drill with id %d",
	}

	errNoUsers = &apperr.Error{
		Message: "pass at least one --user",
	}

	errNobodyActive = &apperr.Error{
		Message: "nobody is currently on drill #%d",
	}

	errModeConflict = &apperr.Error{
		Message: "--demo and --offline cannot be used together",
	}

	errAborted = &apperr.Error{
		Message: "aborted",
	}
)
