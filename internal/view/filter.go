package view

import (
	"strings"

	"github.com/ayoisaiah/drills/internal/models"
)

// Filter selects sessions by state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter accepts "all", "active" or "completed". An empty string means
// all.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(s)) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return FilterAll, errInvalidFilter.Fmt(s)
	}
}

// Match reports whether the session belongs to the filter.
func (f Filter) Match(ud *models.UserDrill) bool {
	switch f {
	case FilterActive:
		return ud.Active()
	case FilterCompleted:
		return !ud.Active()
	default:
		return true
	}
}

// FilterSessions returns the sessions that match f.
func FilterSessions(sessions []models.UserDrill, f Filter) []models.UserDrill {
	out := make([]models.UserDrill, 0, len(sessions))

	for i := range sessions {
		if f.Match(&sessions[i]) {
			out = append(out, sessions[i])
		}
	}

	return out
}
