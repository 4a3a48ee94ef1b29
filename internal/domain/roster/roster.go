// Package roster loads per-category competitor lists from text sources.
//
// Each non-blank line holds a name and a qualifying score separated by a
// comma: "Jane Doe, 612". The line is split on its LAST comma, so names may
// contain commas themselves ("Doe, Jane, 612" yields "Doe, Jane"). The name
// is trimmed of surrounding whitespace; the score must be a base-10 integer
// between 0 and model.MaxScore. Rows scoring 0 are dropped with a warning
// because a competitor without a qualifying score cannot be placed.
package roster

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/okian/quiver/internal/domain/model"
	"github.com/okian/quiver/pkg/logger"
	"github.com/okian/quiver/pkg/metrics"
)

const (
	nameCutset    = " \t\r\n"
	maxLineLength = 1 << 20
)

// Skipped describes a row that was dropped because its score was zero.
type Skipped struct {
	Source string
	Line   int
	Name   string
}

// Loader parses roster sources.
type Loader struct {
	logger logger.Logger
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLogger sets the logger used for skipped-row warnings.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// NewLoader creates a Loader. Without WithLogger warnings are discarded.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{logger: logger.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile opens path and parses it as the roster of category.
func (l *Loader) LoadFile(ctx context.Context, category model.Category, path string) (model.Roster, []Skipped, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Roster{}, nil, fmt.Errorf("%w: %s roster: %w", ErrReadRoster, category, err)
	}
	defer func() { _ = f.Close() }()

	return l.Parse(ctx, category, path, f)
}

// Parse reads a roster from r. source names the input in error messages.
func (l *Loader) Parse(ctx context.Context, category model.Category, source string, r io.Reader) (model.Roster, []Skipped, error) {
	var (
		competitors []model.Competitor
		skipped     []Skipped
		firstSeen   = make(map[string]int)
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineLength)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		name, score, err := parseLine(text)
		if err != nil {
			return model.Roster{}, nil, fmt.Errorf("%w: %s:%d: %w", ErrMalformedLine, source, lineNo, err)
		}

		if score == 0 {
			skipped = append(skipped, Skipped{Source: source, Line: lineNo, Name: name})
			metrics.RecordRosterSkipped(category.String())
			l.logger.Warn(ctx, "skip athlete without qualifying score",
				logger.String("category", category.String()),
				logger.String("name", name),
				logger.String("source", source),
				logger.Int("line", lineNo),
			)
			continue
		}

		if prev, dup := firstSeen[name]; dup {
			return model.Roster{}, nil, fmt.Errorf("%w: %s:%d: %q already listed on line %d",
				ErrDuplicateCompetitor, source, lineNo, name, prev)
		}
		firstSeen[name] = lineNo
		competitors = append(competitors, model.Competitor{Name: name, Score: score})
	}
	if err := sc.Err(); err != nil {
		return model.Roster{}, nil, fmt.Errorf("%w: %s: %w", ErrReadRoster, source, err)
	}

	roster, err := model.NewRoster(category, competitors)
	if err != nil {
		return model.Roster{}, nil, fmt.Errorf("%s: %w", source, err)
	}

	l.logger.Debug(ctx, "roster loaded",
		logger.String("category", category.String()),
		logger.String("source", source),
		logger.Int("competitors", roster.Len()),
		logger.Int("skipped", len(skipped)),
	)
	return roster, skipped, nil
}

func parseLine(text string) (string, int, error) {
	cut := strings.LastIndexByte(text, ',')
	if cut < 0 {
		return "", 0, fmt.Errorf("missing ',' between name and score in %q", text)
	}

	name := strings.Trim(text[:cut], nameCutset)
	if name == "" {
		return "", 0, fmt.Errorf("empty name in %q", text)
	}

	field := strings.TrimSpace(text[cut+1:])
	score, err := strconv.Atoi(field)
	if err != nil {
		return "", 0, fmt.Errorf("score %q is not an integer", field)
	}
	if score < 0 {
		return "", 0, fmt.Errorf("score %d is negative", score)
	}
	if score > model.MaxScore {
		return "", 0, fmt.Errorf("score %d exceeds the maximum of %d", score, model.MaxScore)
	}
	return name, score, nil
}

// CheckCardinality verifies every roster is non-empty and all three have the
// same size, which is the number of teams to form.
func CheckCardinality(rosters model.Rosters) (int, error) {
	sizes := rosters.Sizes()
	for _, c := range model.Categories() {
		if sizes[c] == 0 {
			return 0, fmt.Errorf("%w: %s", ErrEmptyRoster, c)
		}
	}
	for _, c := range model.Categories()[1:] {
		if sizes[c] != sizes[model.Compound] {
			return 0, fmt.Errorf("%w: compound=%d recurve=%d barebow=%d",
				ErrCardinalityMismatch, sizes[model.Compound], sizes[model.Recurve], sizes[model.Barebow])
		}
	}
	return sizes[model.Compound], nil
}
