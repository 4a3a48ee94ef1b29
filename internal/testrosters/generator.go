package testrosters

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/quiver/internal/domain/model"
)

// Score bands, loosely modelled on a 720-round qualification.
const (
	bandCount       = 8
	averageMin      = 560
	averageRange    = 60
	strongMin       = 620
	strongRange     = 50
	developingMin   = 450
	developingRange = 110
	eliteMin        = 670
	eliteRange      = 50
)

var (
	givenNames = []string{
		"Ada", "Bram", "Chen", "Dara", "Elif", "Femi", "Greta", "Hugo",
		"Ines", "Jonas", "Kaia", "Luca", "Mira", "Nils", "Oona", "Pavel",
		"Quinn", "Rosa", "Sami", "Tove", "Uma", "Viggo", "Wren", "Yara",
	}
	familyNames = []string{
		"Abbott", "Berg", "Costa", "Dahl", "Eriksen", "Fischer", "Gallo",
		"Holm", "Ito", "Jansen", "Kovac", "Lind", "Moreau", "Novak",
		"Okafor", "Price", "Rossi", "Sato", "Torres", "Varga", "Weber",
	}
)

// Row is one line of a generated roster.
type Row struct {
	Name  string
	Score int
}

// generator draws names and scores from one seeded stream so that a fixed
// seed reproduces the same rosters, uuid suffixes included.
type generator struct {
	rng   *rand.Rand
	ids   *rand.ChaCha8
	taken map[string]struct{}
}

func newGenerator(seed uint64) *generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	var key [32]byte
	for i := range 4 {
		s := seed + uint64(i)
		for j := range 8 {
			key[i*8+j] = byte(s >> (8 * j))
		}
	}
	ids := rand.NewChaCha8(key)
	return &generator{
		rng:   rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)),
		ids:   ids,
		taken: make(map[string]struct{}),
	}
}

// roster returns n positively scored rows and zero extra zero-score rows for
// category c, in random order.
func (g *generator) roster(c model.Category, n, zero int) ([]Row, error) {
	rows := make([]Row, 0, n+zero)
	for i := 0; i < n; i++ {
		name, err := g.name()
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Name: name, Score: g.score(c)})
	}
	for i := 0; i < zero; i++ {
		name, err := g.name()
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Name: name})
	}
	g.rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	return rows, nil
}

// name returns a name not handed out before. Repeats get a short uuid tag.
func (g *generator) name() (string, error) {
	name := givenNames[g.rng.IntN(len(givenNames))] + " " + familyNames[g.rng.IntN(len(familyNames))]
	if _, dup := g.taken[name]; dup {
		id, err := uuid.NewRandomFromReader(g.ids)
		if err != nil {
			return "", fmt.Errorf("name tag: %w", err)
		}
		name = fmt.Sprintf("%s %s", name, id.String()[:8])
	}
	g.taken[name] = struct{}{}
	return name, nil
}

// score draws from one of several bands; compound shoots a little higher.
func (g *generator) score(c model.Category) int {
	var s int
	switch g.rng.IntN(bandCount) {
	case 0, 1, 2, 3:
		s = averageMin + g.rng.IntN(averageRange)
	case 4, 5:
		s = strongMin + g.rng.IntN(strongRange)
	case 6:
		s = developingMin + g.rng.IntN(developingRange)
	default:
		s = eliteMin + g.rng.IntN(eliteRange)
	}
	switch c {
	case model.Compound:
		s += 20
	case model.Barebow:
		s -= 40
	}
	return s
}
