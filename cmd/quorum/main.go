// Command quorum runs multiple coding agents against the same tasks in
// isolated git worktrees, scores the results, and recommends what to merge.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrz1836/quorum/internal/cli"
)

// Build-time variables set via ldflags.
//
//nolint:gochecknoglobals // Set by the linker
var (
	version string
	commit  string
	date    string
)

func main() {
	// First signal cancels the context so running jobs settle as cancelled;
	// a second signal kills the process the usual way.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}); err != nil {
		os.Exit(cli.ExitError)
	}
}
