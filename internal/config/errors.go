package config

import "github.com/ayoisaiah/drills/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidCLIDuration = &apperr.Error{
		Message: "invalid duration %q (use a value like 30s or 2m)",
	}

	errInvalidPeriod = &apperr.Error{
		Message: "invalid period %q (expected one of %v)",
	}

	errInvalidURL = &apperr.Error{
		Message: "api.base_url must be an absolute http or https URL, got %q",
	}

	errInvalidDuration = &apperr.Error{
		Message: "%s must be between %v and %v, got %v",
	}

	errUnknownLocale = &apperr.Error{
		Message: "display.locale %q is not a valid language tag",
	}

	errUnknownLevel = &apperr.Error{
		Message: "log.level must be one of debug, info, warn or error, got %q",
	}

	errPrompt = &apperr.Error{
		Message: "first run setup failed",
	}
)
