// Package report aggregates drill sessions into per-drill summaries.
package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ayoisaiah/drills/internal/models"
)

// Summary holds the totals for every session of one drill.
type Summary struct {
	Title          string        `json:"title"`
	PricePerMinute float64       `json:"pricePerMinute"`
	Cost           float64       `json:"cost"`
	Duration       time.Duration `json:"duration"`
	DrillID        int           `json:"drillId"`
	Sessions       int           `json:"sessions"`
}

// Totals sums a group of sessions.
type Totals struct {
	Duration time.Duration `json:"duration"`
	Cost     float64       `json:"cost"`
	Sessions int           `json:"sessions"`
}

// Report is the result of Summarize. Summaries are in first-seen order.
type Report struct {
	Summaries []Summary `json:"summaries"`
	Totals    Totals    `json:"totals"`
	// Skipped counts sessions left out because their drill was missing.
	Skipped int `json:"skipped"`
}

// Summarize groups sessions by drill in a single pass. The first session
// seen for a drill decides its title and price. Sessions without an embedded
// drill are skipped, and sessions whose timestamps cannot be read are counted
// without adding to duration or cost.
func Summarize(
	sessions []models.UserDrill,
	now time.Time,
	logger *slog.Logger,
) Report {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var r Report

	index := make(map[int]int)

	for i := range sessions {
		sess := &sessions[i]

		if sess.Drill == nil {
			r.Skipped++

			logger.Warn(
				"session has no drill",
				slog.Int("session_id", sess.ID),
				slog.Int("drill_id", sess.DrillID),
			)

			continue
		}

		pos, ok := index[sess.DrillID]
		if !ok {
			pos = len(r.Summaries)
			index[sess.DrillID] = pos

			r.Summaries = append(r.Summaries, Summary{
				DrillID:        sess.DrillID,
				Title:          title(sess.Drill, sess.DrillID),
				PricePerMinute: sess.Drill.PricePerMinute,
			})
		}

		s := &r.Summaries[pos]
		s.Sessions++

		m := sess.Metrics(now)
		if !m.Valid {
			logger.Warn(
				"session has an unreadable timestamp",
				slog.Int("session_id", sess.ID),
				slog.String("started_at", sess.StartedAt.Raw()),
			)

			continue
		}

		s.Duration += m.Duration
		s.Cost += m.Cost
	}

	for i := range r.Summaries {
		r.Totals.Sessions += r.Summaries[i].Sessions
		r.Totals.Duration += r.Summaries[i].Duration
		r.Totals.Cost += r.Summaries[i].Cost
	}

	return r
}

// SessionTotals sums duration and cost over sessions that have a drill.
func SessionTotals(sessions []models.UserDrill, now time.Time) Totals {
	var t Totals

	for i := range sessions {
		if sessions[i].Drill == nil {
			continue
		}

		t.Sessions++

		m := sessions[i].Metrics(now)
		if !m.Valid {
			continue
		}

		t.Duration += m.Duration
		t.Cost += m.Cost
	}

	return t
}

func title(d *models.Drill, id int) string {
	if d.Title == "" {
		return fmt.Sprintf("Drill #%d", id)
	}

	return d.Title
}
