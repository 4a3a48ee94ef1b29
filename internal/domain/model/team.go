// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// Category is one of the three archery disciplines a team draws from.
type Category int

// The three disciplines. The order is the placement order used by the
// generator and the column order of reports.
const (
	Compound Category = iota
	Recurve
	Barebow
)

// NumCategories is the number of members on every team.
const NumCategories = 3

// MaxScore is the largest qualifying score a competitor may carry. It keeps
// team totals, and the spread between them, far from integer overflow.
const MaxScore = 1 << 20

// Categories returns all categories in placement order.
func Categories() []Category {
	return []Category{Compound, Recurve, Barebow}
}

func (c Category) String() string {
	switch c {
	case Compound:
		return "compound"
	case Recurve:
		return "recurve"
	case Barebow:
		return "barebow"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Abbrev returns the one-letter tag used in reports.
func (c Category) Abbrev() string {
	switch c {
	case Compound:
		return "C"
	case Recurve:
		return "R"
	case Barebow:
		return "B"
	default:
		return "?"
	}
}

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	return c >= Compound && c <= Barebow
}

// ParseCategory accepts a category name, case-insensitive.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compound", "c":
		return Compound, nil
	case "recurve", "r":
		return Recurve, nil
	case "barebow", "b":
		return Barebow, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Competitor is one archer with a qualifying score.
type Competitor struct {
	Name  string
	Score int
}

// Roster is the immutable set of competitors of one category.
type Roster struct {
	category Category
	// sorted by name
	competitors []Competitor
	index       map[string]int
}

// NewRoster validates and copies competitors into a Roster. Names must be
// non-empty and unique, scores in [1, MaxScore].
func NewRoster(category Category, competitors []Competitor) (Roster, error) {
	if !category.Valid() {
		return Roster{}, fmt.Errorf("%w: %d", ErrUnknownCategory, int(category))
	}

	sorted := make([]Competitor, len(competitors))
	copy(sorted, competitors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	index := make(map[string]int, len(sorted))
	for i, c := range sorted {
		if c.Name == "" {
			return Roster{}, fmt.Errorf("%w: empty name in %s roster", ErrInvalidCompetitor, category)
		}
		if c.Score <= 0 || c.Score > MaxScore {
			return Roster{}, fmt.Errorf("%w: %s has score %d in %s roster", ErrInvalidCompetitor, c.Name, c.Score, category)
		}
		if _, dup := index[c.Name]; dup {
			return Roster{}, fmt.Errorf("%w: %s in %s roster", ErrDuplicateCompetitor, c.Name, category)
		}
		index[c.Name] = i
	}

	return Roster{category: category, competitors: sorted, index: index}, nil
}

// Category returns the discipline of the roster.
func (r Roster) Category() Category { return r.category }

// Len returns the number of competitors.
func (r Roster) Len() int { return len(r.competitors) }

// Score returns the qualifying score of name.
func (r Roster) Score(name string) (int, bool) {
	i, ok := r.index[name]
	if !ok {
		return 0, false
	}
	return r.competitors[i].Score, true
}

// Each calls fn for every competitor in ascending name order without copying.
func (r Roster) Each(fn func(Competitor)) {
	for _, c := range r.competitors {
		fn(c)
	}
}

// Rosters holds one roster per category, indexed by Category.
type Rosters [NumCategories]Roster

// Get returns the roster of category c.
func (rs Rosters) Get(c Category) Roster { return rs[c] }

// Sizes returns the roster lengths in category order.
func (rs Rosters) Sizes() [NumCategories]int {
	var out [NumCategories]int
	for i, r := range rs {
		out[i] = r.Len()
	}
	return out
}

// Member is a competitor placed on a team. A zero Score marks an empty seat.
type Member struct {
	Name  string
	Score int
}

// Empty reports whether the seat has not been filled.
func (m Member) Empty() bool { return m.Score == 0 }

// Slot is one team: a seat per category.
type Slot struct {
	Members [NumCategories]Member
}

// Member returns the seat of category c.
func (s Slot) Member(c Category) Member { return s.Members[c] }

// Total is the combined qualifying score of the team.
func (s Slot) Total() int {
	total := 0
	for _, m := range s.Members {
		total += m.Score
	}
	return total
}

// Complete reports whether every seat is filled.
func (s Slot) Complete() bool {
	for _, m := range s.Members {
		if m.Empty() {
			return false
		}
	}
	return true
}

// Assignment is an ordered sequence of teams; the index is the team identity.
type Assignment []Slot

// NewAssignment allocates n empty teams.
func NewAssignment(n int) Assignment {
	return make(Assignment, n)
}

