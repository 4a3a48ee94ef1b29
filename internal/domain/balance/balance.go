// Package balance scores how evenly matched the teams of an assignment are.
package balance

import (
	"fmt"

	"github.com/okian/quiver/internal/domain/model"
)

// Perfect is the best possible score: every team totals the same.
const Perfect = 0

// Score returns the spread between the strongest and the weakest team:
// max(team total) - min(team total). Lower is better. Only the extremes
// count, so reordering teams never changes the result.
func Score(a model.Assignment) (int, error) {
	if len(a) == 0 {
		return 0, ErrEmptyAssignment
	}

	maxTotal, minTotal := 0, 0
	for i, slot := range a {
		if err := checkSlot(i, slot); err != nil {
			return 0, err
		}
		total := slot.Total()
		if i == 0 || total > maxTotal {
			maxTotal = total
		}
		if i == 0 || total < minTotal {
			minTotal = total
		}
	}
	return maxTotal - minTotal, nil
}

// Totals returns the combined score of every team, in team order.
func Totals(a model.Assignment) []int {
	out := make([]int, len(a))
	for i, slot := range a {
		out[i] = slot.Total()
	}
	return out
}

func checkSlot(i int, slot model.Slot) error {
	for _, c := range model.Categories() {
		if slot.Member(c).Empty() {
			return fmt.Errorf("%w: team %d has no %s archer", ErrIncompleteSlot, i+1, c)
		}
	}
	return nil
}
