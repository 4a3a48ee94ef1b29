// Package search finds well balanced team assignments by random restarts.
//
// The loop keeps a single best assignment. Each trial draws a brand new
// assignment; a strictly lower balance score replaces the best and refills
// the patience budget, anything else spends one unit of it. The search is
// done when the budget runs out, so it keeps going for as long as it keeps
// finding better mappings.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/quiver/internal/domain/assign"
	"github.com/okian/quiver/internal/domain/balance"
	"github.com/okian/quiver/internal/domain/model"
	"github.com/okian/quiver/pkg/logger"
	"github.com/okian/quiver/pkg/metrics"
)

const (
	// DefaultPatience is the number of consecutive non-improving trials
	// tolerated before the search stops.
	DefaultPatience = 2_000_000

	// checkInterval is how many trials run between context checks and
	// metric flushes.
	checkInterval = 4096
)

// State of a search run.
type State int

const (
	// Running means the patience countdown has not yet reached zero.
	Running State = iota
	// Done means the search stopped, either out of patience or on a perfect score.
	Done
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Generator produces candidate assignments.
type Generator interface {
	Generate(rosters model.Rosters, slotCount int) (model.Assignment, error)
}

// Improvement describes an accepted candidate.
type Improvement struct {
	RunID    string
	Trial    int64
	Score    int
	Previous int
}

// Observer is notified synchronously on every improvement.
type Observer func(ctx context.Context, imp Improvement)

// Result is the outcome of a finished search.
type Result struct {
	RunID        string
	Best         model.Assignment
	Score        int
	Trials       int64
	Improvements int
	Elapsed      time.Duration
	State        State
}

// Searcher runs the accept-if-better loop. A Searcher is single-threaded;
// run independent searches on independent Searchers.
type Searcher struct {
	patience      int
	stopOnPerfect bool
	gen           Generator
	observer      Observer
	runID         string
	logger        logger.Logger
}

// New creates a Searcher. Without options it uses DefaultPatience and an
// entropy-seeded generator.
func New(opts ...Option) *Searcher {
	s := &Searcher{
		patience: DefaultPatience,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = assign.NewGenerator(assign.NewSource(0))
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	return s
}

// RunID identifies this searcher in logs and reports.
func (s *Searcher) RunID() string { return s.runID }

// Run searches until patience is exhausted and returns the best assignment
// seen. The rosters must all hold the same, non-zero number of competitors.
// Cancelling ctx abandons the search and returns ctx's error.
func (s *Searcher) Run(ctx context.Context, rosters model.Rosters) (Result, error) {
	if s.patience <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidPatience, s.patience)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("search aborted: %w", err)
	}

	start := time.Now()
	slotCount := rosters.Get(model.Compound).Len()

	best, bestScore, err := s.trial(rosters, slotCount)
	if err != nil {
		return Result{}, err
	}
	metrics.UpdateBestBalance(bestScore)

	s.logger.Info(ctx, "search started",
		logger.String("run_id", s.runID),
		logger.Int("teams", slotCount),
		logger.Int("patience", s.patience),
		logger.Int("initial_score", bestScore),
	)

	var (
		state        = Running
		patience     = s.patience
		trials       = int64(1)
		pending      = 1
		improvements = 0
	)

	for state == Running {
		if patience == 0 || (s.stopOnPerfect && bestScore == balance.Perfect) {
			state = Done
			break
		}

		if trials%checkInterval == 0 {
			metrics.AddSearchTrials(pending)
			metrics.UpdatePatienceRemaining(patience)
			pending = 0
			if err := ctx.Err(); err != nil {
				s.logger.Warn(ctx, "search cancelled",
					logger.String("run_id", s.runID),
					logger.Int64("trials", trials),
					logger.Int("best_score", bestScore),
				)
				return Result{}, fmt.Errorf("search aborted: %w", err)
			}
		}

		candidate, score, err := s.trial(rosters, slotCount)
		if err != nil {
			return Result{}, err
		}
		trials++
		pending++

		if score < bestScore {
			imp := Improvement{RunID: s.runID, Trial: trials, Score: score, Previous: bestScore}
			best, bestScore = candidate, score
			patience = s.patience
			improvements++
			s.notify(ctx, imp)
		} else {
			patience--
		}
	}

	elapsed := time.Since(start)
	metrics.AddSearchTrials(pending)
	metrics.UpdatePatienceRemaining(patience)
	metrics.RecordSearchRun(elapsed)

	s.logger.Info(ctx, "search finished",
		logger.String("run_id", s.runID),
		logger.Int("score", bestScore),
		logger.Int64("trials", trials),
		logger.Int("improvements", improvements),
		logger.Duration("elapsed", elapsed),
	)

	return Result{
		RunID:        s.runID,
		Best:         best,
		Score:        bestScore,
		Trials:       trials,
		Improvements: improvements,
		Elapsed:      elapsed,
		State:        state,
	}, nil
}

func (s *Searcher) trial(rosters model.Rosters, slotCount int) (model.Assignment, int, error) {
	a, err := s.gen.Generate(rosters, slotCount)
	if err != nil {
		return nil, 0, fmt.Errorf("generate candidate: %w", err)
	}
	score, err := balance.Score(a)
	if err != nil {
		return nil, 0, fmt.Errorf("score candidate: %w", err)
	}
	return a, score, nil
}

func (s *Searcher) notify(ctx context.Context, imp Improvement) {
	metrics.RecordImprovement(imp.Score)
	s.logger.Info(ctx, "found better team mapping",
		logger.String("run_id", imp.RunID),
		logger.Int("score", imp.Score),
		logger.Int("previous", imp.Previous),
		logger.Int64("trial", imp.Trial),
	)
	if s.observer != nil {
		s.observer(ctx, imp)
	}
}
