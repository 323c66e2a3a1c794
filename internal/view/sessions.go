package view

import (
	"cmp"
	"slices"
	"time"

	"github.com/ayoisaiah/drills/internal/models"
)

// SessionField is a sortable column of the sessions table.
type SessionField string

const (
	SessionStartedAt      SessionField = "startedAt"
	SessionStoppedAt      SessionField = "stoppedAt"
	SessionUser           SessionField = "user"
	SessionDrill          SessionField = "drill"
	SessionDuration       SessionField = "duration"
	SessionPricePerMinute SessionField = "pricePerMinute"
	SessionCost           SessionField = "cost"
)

var sessionFields = []SessionField{
	SessionStartedAt,
	SessionStoppedAt,
	SessionUser,
	SessionDrill,
	SessionDuration,
	SessionPricePerMinute,
	SessionCost,
}

// DefaultSessionSort shows the newest sessions first.
var DefaultSessionSort = Sort[SessionField]{Field: SessionStartedAt, Dir: Desc}

// ParseSessionField validates a sessions column name.
func ParseSessionField(s string) (SessionField, error) {
	return parseField(s, "sessions", sessionFields)
}

// SortSessions returns a sorted copy of sessions. Durations and costs of
// active sessions are measured against now. Active sessions have no stop time
// and come after every stopped session in ascending order.
func SortSessions(
	sessions []models.UserDrill,
	s Sort[SessionField],
	now time.Time,
	c *Comparer,
) []models.UserDrill {
	out := slices.Clone(sessions)

	slices.SortStableFunc(out, func(a, b models.UserDrill) int {
		return s.apply(compareSessions(&a, &b, s.Field, now, c))
	})

	return out
}

func compareSessions(
	a, b *models.UserDrill,
	field SessionField,
	now time.Time,
	c *Comparer,
) int {
	switch field {
	case SessionStoppedAt:
		aActive, bActive := a.Active(), b.Active()

		switch {
		case aActive && bActive:
			return 0
		case aActive:
			return 1
		case bActive:
			return -1
		}

		return a.StoppedAt.Time().Compare(b.StoppedAt.Time())
	case SessionUser:
		return c.Compare(a.UserName(), b.UserName())
	case SessionDrill:
		return c.Compare(a.DrillTitle(), b.DrillTitle())
	case SessionDuration:
		return cmp.Compare(a.Metrics(now).Duration, b.Metrics(now).Duration)
	case SessionPricePerMinute:
		return cmp.Compare(a.PricePerMinute(), b.PricePerMinute())
	case SessionCost:
		return cmp.Compare(a.Metrics(now).Cost, b.Metrics(now).Cost)
	default:
		return a.StartedAt.Time().Compare(b.StartedAt.Time())
	}
}

func parseField[F ~string](s, table string, fields []F) (F, error) {
	for _, f := range fields {
		if string(f) == s {
			return f, nil
		}
	}

	var zero F

	return zero, errInvalidField.Fmt(table, s)
}

// SessionFields lists the sortable sessions columns in display order.
func SessionFields() []SessionField {
	return slices.Clone(sessionFields)
}
