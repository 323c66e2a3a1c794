// Package view orders and filters the collections shown by the dashboard and
// the list commands. Every function returns a new slice and leaves its input
// untouched.
package view

import (
	"strings"
	"sync"

	"github.com/maruel/natural"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the order of a sort.
type Direction int

const (
	Desc Direction = iota
	Asc
)

func (d Direction) String() string {
	if d == Asc {
		return "asc"
	}

	return "desc"
}

// ParseDirection converts "asc" or "desc" into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return Desc, errInvalidOrder.Fmt(s)
	}
}

// Sort is the sort state of one table.
type Sort[F ~string] struct {
	Field F
	Dir   Direction
}

// Toggle returns the state after a click on field: the same field flips its
// direction, a different field starts descending.
func (s Sort[F]) Toggle(field F) Sort[F] {
	if s.Field == field {
		if s.Dir == Asc {
			return Sort[F]{Field: field, Dir: Desc}
		}

		return Sort[F]{Field: field, Dir: Asc}
	}

	return Sort[F]{Field: field, Dir: Desc}
}

func (s Sort[F]) apply(c int) int {
	if s.Dir == Desc {
		return -c
	}

	return c
}

// Comparer compares display strings. It is safe for concurrent use.
type Comparer struct {
	collator *collate.Collator
	mu       sync.Mutex
	natural  bool
}

// NewComparer returns a Comparer for the BCP 47 locale. When useNatural is
// set, digit runs compare by value instead of through the collator.
func NewComparer(locale string, useNatural bool) (*Comparer, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, errUnknownLocale.Fmt(locale)
	}

	return &Comparer{
		collator: collate.New(tag, collate.IgnoreCase),
		natural:  useNatural,
	}, nil
}

// Compare returns -1, 0 or 1.
func (c *Comparer) Compare(a, b string) int {
	if c == nil {
		return strings.Compare(a, b)
	}

	if c.natural {
		switch {
		case a == b:
			return 0
		case natural.Less(a, b):
			return -1
		default:
			return 1
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.collator.CompareString(a, b)
}
