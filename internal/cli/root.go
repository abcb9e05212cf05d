// Package cli provides the command-line interface for quorum.
package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/quorum/internal/errors"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// Set during PersistentPreRunE; access via GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the logger initialized by the root command.
// Must only be called after PersistentPreRunE has executed.
// Safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

func setGlobalLogger(logger zerolog.Logger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = logger
}

// newRootCmd creates the root command for the quorum CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quorum",
		Short: "Quorum - parallel agent execution and comparison",
		Long: `Quorum runs multiple coding agents against the same tasks in isolated
git worktrees, scores the resulting implementations, and recommends which
one to merge.

Features:
  • Isolated workspaces per (agent, task) with dedicated branch and port
  • Bounded-concurrency execution with per-job timeouts
  • Quality scoring across coverage, tests, and static analysis
  • Merge recommendations with confidence levels`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v",
					errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}
			setGlobalLogger(InitLogger(flags.Verbose, flags.Quiet))
			return nil
		},
		SilenceUsage: true,
	}

	AddGlobalFlags(cmd, flags)

	AddRunCommand(cmd, flags)
	AddStatusCommand(cmd, flags)
	AddCompareCommand(cmd, flags)
	AddWorkspacesCommand(cmd, flags)
	AddCleanupCommand(cmd)

	return cmd
}

// formatVersion renders build info for the --version flag.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		return "dev"
	}
	return fmt.Sprintf("%s (commit %s, built %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the quorum CLI with the given context.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	defer CloseLogFile()
	return cmd.ExecuteContext(ctx)
}
