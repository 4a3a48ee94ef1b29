package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/quiver/cmd/quiver/commands"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Interrupting a search abandons it; no report is written.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)

	// Errors are printed by the printer package before Execute returns.
	if err := commands.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
