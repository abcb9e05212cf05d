package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/quorum/internal/git"
	"github.com/mrz1836/quorum/internal/workspace"
)

// AddCleanupCommand adds the `cleanup` command, which removes agent worktrees
// and their branches.
func AddCleanupCommand(root *cobra.Command) {
	var (
		force       bool
		agentFilter string
		taskFilter  string
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove agent worktrees and their branches",
		Long: `Cleanup removes the worktrees and branches created for agent workspaces.
Worktrees with uncommitted changes are kept unless --force is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := GetLogger()

			repoRoot, err := git.DetectRepoRoot(ctx, ".")
			if err != nil {
				return err
			}
			worktrees, err := workspace.NewGitWorktreeRunner(ctx, repoRoot)
			if err != nil {
				return err
			}

			out, err := git.RunCommand(ctx, repoRoot, "worktree", "list", "--porcelain")
			if err != nil {
				return err
			}

			removed := 0
			var failures []error
			for _, info := range parseAgentWorktrees(out) {
				if agentFilter != "" && info.Agent != agentFilter {
					continue
				}
				if taskFilter != "" && info.TaskID != taskFilter {
					continue
				}

				if err = worktrees.Remove(ctx, info.Path, force); err != nil {
					failures = append(failures, fmt.Errorf("%s: %w", info.Branch, err))
					continue
				}
				if err = worktrees.DeleteBranch(ctx, info.Branch, true); err != nil {
					failures = append(failures, err)
					continue
				}
				logger.Info().
					Str("branch", info.Branch).
					Str("path", info.Path).
					Msg("workspace cleaned up")
				removed++
			}

			if pruneErr := worktrees.Prune(ctx); pruneErr != nil {
				logger.Warn().Err(pruneErr).Msg("failed to prune worktree metadata")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed %d workspace(s)\n", removed)
			if len(failures) > 0 {
				return fmt.Errorf("failed to remove %d workspace(s): %w", len(failures), errors.Join(failures...))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "remove worktrees even with uncommitted changes")
	cmd.Flags().StringVar(&agentFilter, "agent", "", "only clean up workspaces for this agent")
	cmd.Flags().StringVar(&taskFilter, "task", "", "only clean up workspaces for this task")

	root.AddCommand(cmd)
}
