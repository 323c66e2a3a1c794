package api

import (
	"math"
	"strings"

	"github.com/ayoisaiah/drills/internal/models"
)

func validateUser(first, last string) error {
	if strings.TrimSpace(first) == "" || strings.TrimSpace(last) == "" {
		return errNameRequired
	}

	return nil
}

func validateDrill(title string, price float64) error {
	if strings.TrimSpace(title) == "" {
		return errTitleRequired
	}

	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return errNegativePrice.Fmt(price)
	}

	return nil
}

func validateID(kind string, id int) error {
	if id <= 0 {
		return errInvalidID.Fmt(kind, id)
	}

	return nil
}

func validateStartStop(req models.StartStop) error {
	if err := validateID("drill", req.DrillID); err != nil {
		return err
	}

	if len(req.UserIDs) == 0 {
		return errNoUsers
	}

	for _, id := range req.UserIDs {
		if err := validateID("user", id); err != nil {
			return err
		}
	}

	return nil
}
