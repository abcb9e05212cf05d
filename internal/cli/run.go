package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/quorum/internal/agent"
	"github.com/mrz1836/quorum/internal/assign"
	"github.com/mrz1836/quorum/internal/config"
	"github.com/mrz1836/quorum/internal/constants"
	"github.com/mrz1836/quorum/internal/coordinator"
	"github.com/mrz1836/quorum/internal/domain"
	"github.com/mrz1836/quorum/internal/git"
	"github.com/mrz1836/quorum/internal/workspace"
)

// AddRunCommand adds the `run` command, which executes an assignment file
// across agents in parallel and persists the results for comparison.
func AddRunCommand(root *cobra.Command, flags *GlobalFlags) {
	var (
		file           string
		maxConcurrency int
		jobTimeout     time.Duration
		baseRef        string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute assignments across agents in parallel",
		Long: `Run executes every assignment in the given file: each (agent, task) pair
gets an isolated git worktree with its own branch and port, the agent CLI is
invoked inside it, and results are recorded for a later 'quorum compare'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			applyLogLevel(cfg, flags)
			logger := GetLogger()
			if maxConcurrency > 0 {
				cfg.Execution.MaxConcurrency = maxConcurrency
			}
			if jobTimeout > 0 {
				cfg.Execution.JobTimeout = jobTimeout
			}
			if baseRef != "" {
				cfg.Workspace.BaseRef = baseRef
			}

			assignments, err := assign.Load(file)
			if err != nil {
				return err
			}

			coord, repoRoot, err := buildCoordinator(cmd, cfg, logger)
			if err != nil {
				return err
			}

			logger.Info().
				Int("assignments", len(assignments)).
				Int("max_concurrency", cfg.Execution.MaxConcurrency).
				Str("base_ref", cfg.Workspace.BaseRef).
				Msg("starting parallel execution")

			jobs, runErr := coord.ExecuteParallel(ctx, assignments)
			if len(jobs) > 0 {
				record := &RunRecord{
					SavedAt: time.Now(),
					BaseRef: cfg.Workspace.BaseRef,
					Jobs:    jobs,
				}
				if saveErr := saveRun(repoRoot, record); saveErr != nil {
					logger.Warn().Err(saveErr).Msg("failed to persist run results")
				}
			}
			if runErr != nil {
				return runErr
			}

			out := cmd.OutOrStdout()
			if flags.Output == OutputJSON {
				return writeJSON(out, jobs)
			}

			renderJobs(out, jobs)
			completed := 0
			for _, j := range jobs {
				if j.Success() {
					completed++
				}
			}
			fmt.Fprintf(out, "\n%d/%d jobs completed successfully\n", completed, len(jobs))
			if completed == 0 {
				return fmt.Errorf("no job completed successfully")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "assignment file (YAML)")
	cmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 0, "override max concurrent jobs")
	cmd.Flags().DurationVar(&jobTimeout, "timeout", 0, "override default per-job timeout")
	cmd.Flags().StringVar(&baseRef, "base-ref", "", "override git ref workspaces branch from")
	_ = cmd.MarkFlagRequired("file")

	root.AddCommand(cmd)
}

// buildCoordinator wires the workspace manager, agent registry, and
// coordinator for the repository containing the working directory.
func buildCoordinator(cmd *cobra.Command, cfg *config.Config, logger zerolog.Logger) (*coordinator.Coordinator, string, error) {
	ctx := cmd.Context()

	repoRoot, err := git.DetectRepoRoot(ctx, ".")
	if err != nil {
		return nil, "", err
	}

	worktrees, err := workspace.NewGitWorktreeRunner(ctx, repoRoot)
	if err != nil {
		return nil, "", err
	}

	baseDir := cfg.Workspace.BaseDir
	if baseDir == "" {
		baseDir = filepath.Join(repoRoot, constants.QuorumHome, "workspaces")
	}

	manager, err := workspace.NewManager(worktrees, workspace.Options{
		RepoPath:     repoRoot,
		BaseDir:      baseDir,
		BasePort:     cfg.Workspace.BasePort,
		PortPoolSize: cfg.Workspace.PortPoolSize,
	})
	if err != nil {
		return nil, "", err
	}

	registry, err := buildRegistry(cfg.Agents, logger)
	if err != nil {
		return nil, "", err
	}

	coord, err := coordinator.New(manager, agent.NewMultiRunner(registry), coordinator.Options{
		MaxConcurrency:  cfg.Execution.MaxConcurrency,
		JobTimeout:      cfg.Execution.JobTimeout,
		OverallDeadline: cfg.Execution.OverallDeadline,
		BaseRef:         cfg.Workspace.BaseRef,
		Logger:          logger,
	})
	if err != nil {
		return nil, "", err
	}
	return coord, repoRoot, nil
}

// buildRegistry creates a CLI runner for every configured agent.
func buildRegistry(agents map[string]config.AgentConfig, logger zerolog.Logger) (*agent.Registry, error) {
	registry := agent.NewRegistry()
	for name, ac := range agents {
		runner, err := agent.NewCLIRunner(domain.Agent(name), ac.Command, ac.Args, logger)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", name, err)
		}
		registry.Register(domain.Agent(name), runner)
	}
	return registry, nil
}
