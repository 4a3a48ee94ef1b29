package assign_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/quiver/internal/domain/assign"
	"github.com/okian/quiver/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// sequence replays fixed draws, wrapping around when exhausted.
type sequence struct {
	draws []int
	next  int
}

func (s *sequence) IntN(n int) int {
	v := s.draws[s.next%len(s.draws)] % n
	s.next++
	return v
}

func mustRoster(c model.Category, pairs ...any) model.Roster {
	var cs []model.Competitor
	for i := 0; i < len(pairs); i += 2 {
		cs = append(cs, model.Competitor{Name: pairs[i].(string), Score: pairs[i+1].(int)})
	}
	r, err := model.NewRoster(c, cs)
	if err != nil {
		panic(err)
	}
	return r
}

func syntheticRosters(n int) model.Rosters {
	var rs model.Rosters
	for _, c := range model.Categories() {
		cs := make([]model.Competitor, n)
		for i := range cs {
			cs[i] = model.Competitor{Name: fmt.Sprintf("%s-%03d", c, i), Score: 500 + 7*i + int(c)}
		}
		r, err := model.NewRoster(c, cs)
		if err != nil {
			panic(err)
		}
		rs[c] = r
	}
	return rs
}

func TestGenerateDeterministic(t *testing.T) {
	Convey("Given three rosters and a scripted source", t, func() {
		rosters := model.Rosters{
			mustRoster(model.Compound, "A", 10, "B", 20, "C", 30),
			mustRoster(model.Recurve, "D", 10, "E", 20, "F", 30),
			mustRoster(model.Barebow, "G", 10, "H", 20, "I", 30),
		}
		src := &sequence{draws: []int{0, 0, 2, 1, 1, 0, 2, 2, 2, 1, 0}}
		gen := assign.NewGenerator(src)

		Convey("When generating", func() {
			a, err := gen.Generate(rosters, 3)

			Convey("Then occupied slots are redrawn and the result is exact", func() {
				So(err, ShouldBeNil)
				So(src.next, ShouldEqual, 11)
				So(a[0].Members, ShouldResemble, [model.NumCategories]model.Member{{Name: "A", Score: 10}, {Name: "E", Score: 20}, {Name: "I", Score: 30}})
				So(a[1].Members, ShouldResemble, [model.NumCategories]model.Member{{Name: "C", Score: 30}, {Name: "D", Score: 10}, {Name: "H", Score: 20}})
				So(a[2].Members, ShouldResemble, [model.NumCategories]model.Member{{Name: "B", Score: 20}, {Name: "F", Score: 30}, {Name: "G", Score: 10}})
			})
		})
	})
}

func TestGenerateBijection(t *testing.T) {
	Convey("Given rosters of several sizes and a seeded source", t, func() {
		gen := assign.NewGenerator(assign.NewSource(7))

		for _, n := range []int{1, 2, 5, 17, 64} {
			rosters := syntheticRosters(n)

			Convey(fmt.Sprintf("When generating %d teams repeatedly", n), func() {
				for trial := 0; trial < 25; trial++ {
					a, err := gen.Generate(rosters, n)
					So(err, ShouldBeNil)
					So(len(a), ShouldEqual, n)

					for _, c := range model.Categories() {
						seen := make(map[string]int)
						for _, slot := range a {
							m := slot.Member(c)
							So(m.Empty(), ShouldBeFalse)
							want, ok := rosters.Get(c).Score(m.Name)
							So(ok, ShouldBeTrue)
							So(m.Score, ShouldEqual, want)
							seen[m.Name]++
						}
						So(len(seen), ShouldEqual, n)
						for _, count := range seen {
							So(count, ShouldEqual, 1)
						}
					}
				}
			})
		}
	})
}

func TestGenerateUniform(t *testing.T) {
	Convey("Given a three-team draw repeated many times", t, func() {
		rosters := syntheticRosters(3)
		gen := assign.NewGenerator(assign.NewSource(99))
		counts := make([]int, 3)
		const trials = 30000

		for i := 0; i < trials; i++ {
			a, err := gen.Generate(rosters, 3)
			So(err, ShouldBeNil)
			for slot := range a {
				if a[slot].Member(model.Compound).Name == "compound-000" {
					counts[slot]++
				}
			}
		}

		Convey("Then a competitor lands in every team about equally often", func() {
			for _, c := range counts {
				So(c, ShouldBeBetween, trials/3-500, trials/3+500)
			}
		})
	})
}

func TestGeneratePrecondition(t *testing.T) {
	Convey("Given a generator", t, func() {
		gen := assign.NewGenerator(nil)

		Convey("When roster sizes differ from the slot count", func() {
			rosters := model.Rosters{
				mustRoster(model.Compound, "A", 1, "B", 2),
				mustRoster(model.Recurve, "C", 1, "D", 2),
				mustRoster(model.Barebow, "E", 1),
			}
			a, err := gen.Generate(rosters, 2)

			Convey("Then it fails before placing anyone", func() {
				So(a, ShouldBeNil)
				So(errors.Is(err, assign.ErrPrecondition), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "barebow")
			})
		})

		Convey("When more competitors than teams are requested", func() {
			_, err := gen.Generate(syntheticRosters(4), 3)
			So(errors.Is(err, assign.ErrPrecondition), ShouldBeTrue)
		})

		Convey("When the slot count is zero", func() {
			_, err := gen.Generate(model.Rosters{}, 0)
			So(errors.Is(err, assign.ErrPrecondition), ShouldBeTrue)
		})
	})
}

func TestNewSource(t *testing.T) {
	Convey("Given seeded sources", t, func() {
		Convey("When two share a seed", func() {
			a, b := assign.NewSource(42), assign.NewSource(42)

			Convey("Then their sequences match", func() {
				for i := 0; i < 50; i++ {
					So(a.IntN(1000), ShouldEqual, b.IntN(1000))
				}
			})
		})

		Convey("When the seed is zero", func() {
			a, b := assign.NewSource(0), assign.NewSource(0)
			same := true
			for i := 0; i < 20; i++ {
				if a.IntN(1<<30) != b.IntN(1<<30) {
					same = false
				}
			}

			Convey("Then sequences differ between sources", func() {
				So(same, ShouldBeFalse)
			})
		})
	})
}
