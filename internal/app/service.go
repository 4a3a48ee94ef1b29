// Package service wires roster loading, team search and report writing into
// one run of the balancer.
package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/quiver/internal/adapters/report"
	"github.com/okian/quiver/internal/domain/assign"
	"github.com/okian/quiver/internal/domain/model"
	"github.com/okian/quiver/internal/domain/roster"
	"github.com/okian/quiver/internal/domain/search"
	"github.com/okian/quiver/internal/domain/types"
	"github.com/okian/quiver/pkg/logger"
	"github.com/okian/quiver/pkg/metrics"
)

// Outcome summarizes a completed run.
type Outcome struct {
	// Report is what was written to OutputPath.
	Report types.Report
	// Result is the winning search.
	Result search.Result
	// Run is the index of the winning search among Runs.
	Run int
	// Teams is the number of teams formed.
	Teams int
	// Skipped lists zero-score rows dropped while loading.
	Skipped []roster.Skipped
	// OutputPath is where the report was written.
	OutputPath string
}

// Service runs the balancer end to end.
type Service struct {
	paths         [model.NumCategories]string
	outputPath    string
	reportFormat  string
	patience      int
	seed          uint64
	runs          int
	stopOnPerfect bool
	metricsFile   string
	observer      search.Observer

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRosterPaths sets the three roster files.
func WithRosterPaths(compound, recurve, barebow string) Option {
	return func(s *Service) {
		s.paths[model.Compound] = compound
		s.paths[model.Recurve] = recurve
		s.paths[model.Barebow] = barebow
	}
}

// WithOutputPath sets where the report is written.
func WithOutputPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.outputPath = path
		}
	}
}

// WithReportFormat selects text or json output.
func WithReportFormat(format string) Option {
	return func(s *Service) {
		if format != "" {
			s.reportFormat = format
		}
	}
}

// WithPatience sets the non-improving trial budget of each search.
func WithPatience(patience int) Option {
	return func(s *Service) {
		s.patience = patience
	}
}

// WithSeed fixes the random sources. Run i uses seed+i. Zero means entropy.
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithRuns sets the number of independent searches.
func WithRuns(runs int) Option {
	return func(s *Service) {
		if runs > 0 {
			s.runs = runs
		}
	}
}

// WithStopOnPerfect ends each search at the first zero-spread assignment.
func WithStopOnPerfect(stop bool) Option {
	return func(s *Service) {
		s.stopOnPerfect = stop
	}
}

// WithMetricsFile dumps metrics to path after a successful run.
func WithMetricsFile(path string) Option {
	return func(s *Service) {
		s.metricsFile = path
	}
}

// WithObserver is called on every improvement of every search. With more
// than one run it is called concurrently.
func WithObserver(o search.Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		paths: [model.NumCategories]string{
			model.Compound: "compound_archers.txt",
			model.Recurve:  "recurve_archers.txt",
			model.Barebow:  "barebow_archers.txt",
		},
		outputPath:   "generated_teams.txt",
		reportFormat: report.FormatText,
		patience:     search.DefaultPatience,
		runs:         1,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

// Run loads the rosters, searches for balanced teams and writes the report.
// Nothing is written when loading fails, the rosters do not line up, or ctx
// is cancelled before the searches finish.
func (s *Service) Run(ctx context.Context) (Outcome, error) {
	writer, err := report.NewWriter(
		report.WithFormat(s.reportFormat),
		report.WithLogger(s.logger.Named("report")),
	)
	if err != nil {
		return Outcome{}, err
	}

	rosters, skipped, err := s.loadRosters(ctx)
	if err != nil {
		return Outcome{}, err
	}

	teams, err := roster.CheckCardinality(rosters)
	if err != nil {
		return Outcome{}, err
	}
	for _, c := range model.Categories() {
		metrics.UpdateRosterSize(c.String(), rosters.Get(c).Len())
	}

	s.logger.Info(ctx, "rosters loaded",
		logger.Int("teams", teams),
		logger.Int("skipped", len(skipped)),
		logger.Int("runs", s.runs),
		logger.String("format", writer.Format()),
	)

	results, err := s.search(ctx, rosters)
	if err != nil {
		return Outcome{}, err
	}
	winner := pickBest(results)
	best := results[winner]

	rep := types.Report{
		RunID:        best.RunID,
		Balance:      best.Score,
		Trials:       best.Trials,
		Improvements: best.Improvements,
		Teams:        types.TeamsFromAssignment(best.Best),
	}
	if err := writer.WriteFile(ctx, s.outputPath, rep); err != nil {
		return Outcome{}, err
	}

	if s.metricsFile != "" {
		if err := metrics.WriteTextfile(s.metricsFile); err != nil {
			return Outcome{}, err
		}
	}

	return Outcome{
		Report:     rep,
		Result:     best,
		Run:        winner,
		Teams:      teams,
		Skipped:    skipped,
		OutputPath: s.outputPath,
	}, nil
}

func (s *Service) loadRosters(ctx context.Context) (model.Rosters, []roster.Skipped, error) {
	loader := roster.NewLoader(roster.WithLogger(s.logger.Named("roster")))

	var (
		rosters model.Rosters
		skipped []roster.Skipped
	)
	for _, c := range model.Categories() {
		r, sk, err := loader.LoadFile(ctx, c, s.paths[c])
		if err != nil {
			return model.Rosters{}, nil, err
		}
		rosters[c] = r
		skipped = append(skipped, sk...)
	}
	return rosters, skipped, nil
}

// search runs s.runs independent searches. The first failure cancels the rest.
func (s *Service) search(ctx context.Context, rosters model.Rosters) ([]search.Result, error) {
	start := time.Now()
	results := make([]search.Result, s.runs)

	g, gctx := errgroup.WithContext(ctx)
	for i := range results {
		searcher := search.New(
			search.WithPatience(s.patience),
			search.WithStopOnPerfect(s.stopOnPerfect),
			search.WithSource(s.sourceFor(i)),
			search.WithObserver(s.observer),
			search.WithLogger(s.logger.Named("search")),
		)
		s.logger.Debug(ctx, "search scheduled",
			logger.Int("run", i),
			logger.String("run_id", searcher.RunID()),
		)
		g.Go(func() error {
			res, err := searcher.Run(gctx, rosters)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "searches finished",
		logger.Int("runs", s.runs),
		logger.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

func (s *Service) sourceFor(run int) assign.Source {
	if s.seed == 0 {
		return assign.NewSource(0)
	}
	return assign.NewSource(s.seed + uint64(run))
}

// pickBest returns the index of the lowest score; ties go to the lower index.
func pickBest(results []search.Result) int {
	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].Score < results[best].Score {
			best = i
		}
	}
	return best
}
