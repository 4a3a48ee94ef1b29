package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	service "github.com/okian/quiver/internal/app"
	"github.com/okian/quiver/internal/adapters/report"
	"github.com/okian/quiver/internal/config"
	"github.com/okian/quiver/internal/domain/roster"
	"github.com/okian/quiver/internal/printer"
	"github.com/okian/quiver/pkg/logger"
	"github.com/okian/quiver/pkg/metrics"
)

var versionString = "dev"

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	versionString = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// Execute builds the root command and runs it with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

type flags struct {
	configPath    string
	compound      string
	recurve       string
	barebow       string
	output        string
	format        string
	patience      int
	seed          uint64
	runs          int
	stopOnPerfect bool
	logLevel      string
	metricsFile   string
}

// NewRootCommand returns the quiver command.
func NewRootCommand() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "quiver",
		Short: "Quiver - balance mixed archery teams",
		Long: `Quiver forms mixed teams of one compound, one recurve and one barebow
archer each, so that team qualification totals are as even as possible.

It reads three roster files of "name,score" lines, searches random team
mappings until no better one has turned up for --patience trials, and writes
one line per team to the output file.`,
		Version:       versionString,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "YAML config file (default $"+config.ConfigEnv+")")
	fs.StringVar(&f.compound, "compound", "", "compound roster file")
	fs.StringVar(&f.recurve, "recurve", "", "recurve roster file")
	fs.StringVar(&f.barebow, "barebow", "", "barebow roster file")
	fs.StringVarP(&f.output, "output", "o", "", "report file")
	fs.StringVar(&f.format, "format", "", "report format: text or json")
	fs.IntVar(&f.patience, "patience", 0, "non-improving trials before a search stops")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed; 0 picks a fresh one")
	fs.IntVar(&f.runs, "runs", 0, "independent searches to run in parallel")
	fs.BoolVar(&f.stopOnPerfect, "stop-on-perfect", false, "stop a search once all teams tie")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")

	return cmd
}

func run(cmd *cobra.Command, f *flags) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx, f.configPath)
	if err != nil {
		return configError(err)
	}
	applyFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		return configError(err)
	}

	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
		return printer.Error("Logging setup failed", err.Error(), nil)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithRosterPaths(cfg.CompoundPath, cfg.RecurvePath, cfg.BarebowPath),
		service.WithOutputPath(cfg.OutputPath),
		service.WithReportFormat(cfg.ReportFormat),
		service.WithPatience(cfg.Patience),
		service.WithSeed(cfg.Seed),
		service.WithRuns(cfg.Runs),
		service.WithStopOnPerfect(cfg.StopOnPerfect),
		service.WithMetricsFile(cfg.MetricsFile),
	)

	printer.Step("balancing %s, %s and %s\n", cfg.CompoundPath, cfg.RecurvePath, cfg.BarebowPath)
	out, err := svc.Run(ctx)
	if err != nil {
		log.Error(ctx, "run failed", logger.Error(err))
		return runError(err, cfg)
	}

	for _, s := range out.Skipped {
		printer.Warning("skipped %s (%s:%d): no qualifying score\n", s.Name, s.Source, s.Line)
	}
	printer.Success("wrote %d teams to %s (spread %d after %d trials)\n",
		out.Teams, out.OutputPath, out.Result.Score, out.Result.Trials)
	return nil
}

// applyFlags overrides cfg with every flag the user set explicitly.
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("compound") {
		cfg.CompoundPath = f.compound
	}
	if changed("recurve") {
		cfg.RecurvePath = f.recurve
	}
	if changed("barebow") {
		cfg.BarebowPath = f.barebow
	}
	if changed("output") {
		cfg.OutputPath = f.output
	}
	if changed("format") {
		cfg.ReportFormat = f.format
	}
	if changed("patience") {
		cfg.Patience = f.patience
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("runs") {
		cfg.Runs = f.runs
	}
	if changed("stop-on-perfect") {
		cfg.StopOnPerfect = f.stopOnPerfect
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
}

func configError(err error) error {
	return printer.Error("Invalid configuration", err.Error(), []string{
		"Check the flags, the QUIVER_* environment variables and the file named by --config.",
	})
}

func runError(err error, cfg *config.Config) error {
	switch {
	case errors.Is(err, roster.ErrReadRoster):
		return printer.Error("Cannot read roster", err.Error(), []string{
			"Make sure the roster files exist, or point --compound, --recurve and --barebow at them.",
		})
	case errors.Is(err, roster.ErrMalformedLine), errors.Is(err, roster.ErrDuplicateCompetitor):
		return printer.Error("Roster rejected", err.Error(), []string{
			`Every line must read "name,score" with a whole-number score, and names must be unique.`,
		})
	case errors.Is(err, roster.ErrEmptyRoster), errors.Is(err, roster.ErrCardinalityMismatch):
		return printer.ErrorWithContext("Roster sizes differ", err.Error(), map[string]string{
			"compound": cfg.CompoundPath,
			"recurve":  cfg.RecurvePath,
			"barebow":  cfg.BarebowPath,
		}, []string{
			"Add archers to the shorter rosters",
			"Remove archers from the longer ones",
		})
	case errors.Is(err, report.ErrWriteReport), errors.Is(err, metrics.ErrExport):
		return printer.Error("Cannot write output", err.Error(), nil)
	case errors.Is(err, context.Canceled):
		return printer.Error("Interrupted", "The search was cancelled; no report was written.", nil)
	default:
		return printer.Error("Balancing failed", err.Error(), []string{
			"Re-run with --log-level debug for details.",
		})
	}
}
