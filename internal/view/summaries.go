package view

import (
	"cmp"
	"slices"

	"github.com/ayoisaiah/drills/internal/report"
)

// SummaryField is a sortable column of the per-drill summary table.
type SummaryField string

const (
	SummaryDrill    SummaryField = "drill"
	SummarySessions SummaryField = "sessions"
	SummaryDuration SummaryField = "duration"
	SummaryCost     SummaryField = "cost"
)

var summaryFields = []SummaryField{
	SummaryDrill,
	SummarySessions,
	SummaryDuration,
	SummaryCost,
}

// DefaultSummarySort orders drills alphabetically.
var DefaultSummarySort = Sort[SummaryField]{Field: SummaryDrill, Dir: Asc}

// ParseSummaryField validates a summary column name.
func ParseSummaryField(s string) (SummaryField, error) {
	return parseField(s, "summaries", summaryFields)
}

// SortSummaries returns a sorted copy of summaries.
func SortSummaries(
	summaries []report.Summary,
	s Sort[SummaryField],
	c *Comparer,
) []report.Summary {
	out := slices.Clone(summaries)

	slices.SortStableFunc(out, func(a, b report.Summary) int {
		var r int

		switch s.Field {
		case SummarySessions:
			r = cmp.Compare(a.Sessions, b.Sessions)
		case SummaryDuration:
			r = cmp.Compare(a.Duration, b.Duration)
		case SummaryCost:
			r = cmp.Compare(a.Cost, b.Cost)
		default:
			r = c.Compare(a.Title, b.Title)
		}

		return s.apply(r)
	})

	return out
}

func SummaryFields() []SummaryField {
	return slices.Clone(summaryFields)
}
