// Package assign generates random team assignments.
//
// Every category is spread independently: competitors are visited in name
// order and each one is dropped into a uniformly drawn team, redrawing while
// that team already has a member of the category. With exactly as many
// competitors as teams this yields a uniformly random bijection per
// category. The loop would never finish with more competitors than teams,
// so Generate checks sizes before placing anyone.
package assign

import (
	"fmt"
	"math/rand/v2"

	"github.com/okian/quiver/internal/domain/model"
)

// pcgStream is the second PCG word for seeded sources.
const pcgStream = 0x9e3779b97f4a7c15

// Source supplies uniform draws. IntN must return a value in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG source. A zero seed draws the state from the
// runtime's OS-entropy seeded generator, so repeated runs differ; any other
// seed gives a reproducible sequence.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // not security sensitive
	}
	return rand.New(rand.NewPCG(seed, seed^pcgStream)) //nolint:gosec // reproducible by request
}

// Generator produces random assignments from a Source. A Generator is not
// safe for concurrent use because the Source is not.
type Generator struct {
	src Source
}

// NewGenerator wraps src. A nil src gets an entropy-seeded source.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = NewSource(0)
	}
	return &Generator{src: src}
}

// Generate returns a fresh assignment of slotCount teams with every
// competitor of every roster placed exactly once.
func (g *Generator) Generate(rosters model.Rosters, slotCount int) (model.Assignment, error) {
	if err := checkPrecondition(rosters, slotCount); err != nil {
		return nil, err
	}

	result := model.NewAssignment(slotCount)
	for _, c := range model.Categories() {
		rosters.Get(c).Each(func(comp model.Competitor) {
			ptr := g.src.IntN(slotCount)
			for !result[ptr].Members[c].Empty() {
				ptr = g.src.IntN(slotCount)
			}
			result[ptr].Members[c] = model.Member{Name: comp.Name, Score: comp.Score}
		})
	}
	return result, nil
}

func checkPrecondition(rosters model.Rosters, slotCount int) error {
	if slotCount <= 0 {
		return fmt.Errorf("%w: slot count %d", ErrPrecondition, slotCount)
	}
	for _, c := range model.Categories() {
		if n := rosters.Get(c).Len(); n != slotCount {
			return fmt.Errorf("%w: %s roster has %d competitors for %d teams", ErrPrecondition, c, n, slotCount)
		}
	}
	return nil
}
