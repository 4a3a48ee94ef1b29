package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/quiver/internal/printer"
	"github.com/okian/quiver/internal/testrosters"
	"github.com/okian/quiver/pkg/logger"
)

// Default configuration constants.
const (
	defaultTeams    = 24
	defaultZeroRows = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	cfg := &testrosters.Config{}
	var verbose bool

	cmd := &cobra.Command{
		Use:   "gen-rosters",
		Short: "Write synthetic compound, recurve and barebow rosters",
		Example: `  # 24 teams in the current directory
  gen-rosters

  # reproducible rosters for 60 teams under ./club
  gen-rosters --dir club --teams 60 --seed 7`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return printer.Error("Logging setup failed", err.Error(), nil)
			}
			if verbose {
				_ = logger.SetLevelString("debug")
			}

			stats, err := testrosters.Run(ctx, cfg, logger.Named("gen-rosters"))
			if err != nil {
				return printer.Error("Roster generation failed", err.Error(), nil)
			}
			for _, f := range stats.Files {
				printer.Success("wrote %s\n", f)
			}
			printer.Info("%d archers, %d zero-score rows, %s\n", stats.Archers, stats.ZeroRows, stats.Duration)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.Dir, "dir", ".", "output directory")
	fs.IntVar(&cfg.Teams, "teams", defaultTeams, "archers per category")
	fs.IntVar(&cfg.ZeroRows, "zero-rows", defaultZeroRows, "zero-score rows per category")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "random seed; 0 picks a fresh one")
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}
