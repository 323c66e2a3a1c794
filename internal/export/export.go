// Package export writes sessions and summaries as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ayoisaiah/drills/internal/apperr"
	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/osutil"
	"github.com/ayoisaiah/drills/internal/report"
	"github.com/ayoisaiah/drills/internal/timeutil"
)

var errWriteFile = &apperr.Error{
	Message: "could not write export file %s",
}

// Options controls how times are rendered.
type Options struct {
	// Now is the reference instant for active sessions.
	Now time.Time
	// Location defaults to time.Local.
	Location *time.Location
}

func (o Options) loc() *time.Location {
	if o.Location == nil {
		return time.Local
	}

	return o.Location
}

func (o Options) stamp(ts timeutil.Timestamp) string {
	if !ts.Valid() {
		return timeutil.InvalidDate
	}

	return ts.Time().In(o.loc()).Format(time.RFC3339)
}

var sessionHeader = []string{
	"ID",
	"User",
	"Drill",
	"Started",
	"Stopped",
	"Duration (s)",
	"Duration",
	"Price per minute",
	"Cost",
}

// SessionsCSV writes one row per session.
func SessionsCSV(w io.Writer, sessions []models.UserDrill, opts Options) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(sessionHeader); err != nil {
		return err
	}

	for i := range sessions {
		sess := &sessions[i]

		stopped := ""
		if !sess.Active() {
			stopped = opts.stamp(*sess.StoppedAt)
		}

		row := []string{
			strconv.Itoa(sess.ID),
			sess.UserName(),
			sess.DrillTitle(),
			opts.stamp(sess.StartedAt),
			stopped,
			"",
			"",
			timeutil.FormatCost(sess.PricePerMinute()),
			"",
		}

		if m := sess.Metrics(opts.Now); m.Valid {
			row[5] = strconv.FormatInt(int64(m.Duration/time.Second), 10)
			row[6] = timeutil.FormatDuration(m.Duration)
			row[8] = timeutil.FormatCost(m.Cost)
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

type jsonExport struct {
	ExportedAt    string      `json:"exported_at"`
	Entries       []jsonEntry `json:"entries"`
	TotalCost     float64     `json:"total_cost"`
	TotalDuration int64       `json:"total_duration_seconds"`
	Count         int         `json:"count"`
}

type jsonEntry struct {
	Cost           *float64 `json:"cost"`
	DurationSec    *int64   `json:"duration_seconds"`
	User           string   `json:"user"`
	Drill          string   `json:"drill"`
	StartedAt      string   `json:"started_at"`
	StoppedAt      string   `json:"stopped_at,omitempty"`
	Duration       string   `json:"duration,omitempty"`
	PricePerMinute float64  `json:"price_per_minute"`
	ID             int      `json:"id"`
	UserID         int      `json:"user_id"`
	DrillID        int      `json:"drill_id"`
	Active         bool     `json:"active"`
}

// SessionsJSON writes the sessions with their derived duration and cost.
func SessionsJSON(w io.Writer, sessions []models.UserDrill, opts Options) error {
	totals := report.SessionTotals(sessions, opts.Now)

	out := jsonExport{
		ExportedAt:    opts.Now.In(opts.loc()).Format(time.RFC3339),
		Count:         len(sessions),
		Entries:       make([]jsonEntry, 0, len(sessions)),
		TotalDuration: int64(totals.Duration / time.Second),
		TotalCost:     totals.Cost,
	}

	for i := range sessions {
		sess := &sessions[i]

		e := jsonEntry{
			ID:             sess.ID,
			UserID:         sess.UserID,
			DrillID:        sess.DrillID,
			User:           sess.UserName(),
			Drill:          sess.DrillTitle(),
			StartedAt:      opts.stamp(sess.StartedAt),
			PricePerMinute: sess.PricePerMinute(),
			Active:         sess.Active(),
		}

		if !sess.Active() {
			e.StoppedAt = opts.stamp(*sess.StoppedAt)
		}

		if m := sess.Metrics(opts.Now); m.Valid {
			secs := int64(m.Duration / time.Second)
			cost := m.Cost
			e.DurationSec = &secs
			e.Duration = timeutil.FormatDuration(m.Duration)
			e.Cost = &cost
		}

		out.Entries = append(out.Entries, e)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

// SummaryCSV writes one row per drill followed by a total row.
func SummaryCSV(w io.Writer, r report.Report) error {
	cw := csv.NewWriter(w)

	header := []string{
		"Drill",
		"Sessions",
		"Duration (s)",
		"Duration",
		"Price per minute",
		"Cost",
	}

	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range r.Summaries {
		row := []string{
			s.Title,
			strconv.Itoa(s.Sessions),
			strconv.FormatInt(int64(s.Duration/time.Second), 10),
			timeutil.FormatDuration(s.Duration),
			timeutil.FormatCost(s.PricePerMinute),
			timeutil.FormatCost(s.Cost),
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	total := []string{
		"Total",
		strconv.Itoa(r.Totals.Sessions),
		strconv.FormatInt(int64(r.Totals.Duration/time.Second), 10),
		timeutil.FormatDuration(r.Totals.Duration),
		"",
		timeutil.FormatCost(r.Totals.Cost),
	}

	if err := cw.Write(total); err != nil {
		return err
	}

	cw.Flush()

	return cw.Error()
}

type jsonSummary struct {
	Drill          string  `json:"drill"`
	Duration       string  `json:"duration"`
	PricePerMinute float64 `json:"price_per_minute"`
	Cost           float64 `json:"cost"`
	DurationSec    int64   `json:"duration_seconds"`
	DrillID        int     `json:"drill_id"`
	Sessions       int     `json:"sessions"`
}

type jsonSummaryExport struct {
	Drills        []jsonSummary `json:"drills"`
	TotalCost     float64       `json:"total_cost"`
	TotalDuration int64         `json:"total_duration_seconds"`
	Sessions      int           `json:"sessions"`
	Skipped       int           `json:"skipped"`
}

// SummaryJSON writes one entry per drill with the grand totals.
func SummaryJSON(w io.Writer, r report.Report) error {
	out := jsonSummaryExport{
		Drills:        make([]jsonSummary, 0, len(r.Summaries)),
		TotalCost:     r.Totals.Cost,
		TotalDuration: int64(r.Totals.Duration / time.Second),
		Sessions:      r.Totals.Sessions,
		Skipped:       r.Skipped,
	}

	for _, s := range r.Summaries {
		out.Drills = append(out.Drills, jsonSummary{
			DrillID:        s.DrillID,
			Drill:          s.Title,
			Sessions:       s.Sessions,
			DurationSec:    int64(s.Duration / time.Second),
			Duration:       timeutil.FormatDuration(s.Duration),
			PricePerMinute: s.PricePerMinute,
			Cost:           s.Cost,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

// ToFile creates path and passes it to write.
func ToFile(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(
		path,
		os.O_CREATE|os.O_WRONLY|os.O_TRUNC,
		osutil.FilePermission,
	)
	if err != nil {
		return errWriteFile.Fmt(path).Wrap(err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return errWriteFile.Fmt(path).Wrap(err)
	}

	if err := f.Close(); err != nil {
		return errWriteFile.Fmt(path).Wrap(err)
	}

	return nil
}

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var errUnknownFormat = &apperr.Error{
	Message: "unknown export format %q (expected csv or json)",
}

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", errUnknownFormat.Fmt(s)
	}
}

func (f Format) String() string {
	return string(f)
}

// Ext returns the file extension for f including the dot.
func (f Format) Ext() string {
	return fmt.Sprintf(".%s", f)
}
