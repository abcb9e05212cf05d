package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/quorum/internal/git"
)

// agentBranchPrefix marks branches created for agent workspaces.
const agentBranchPrefix = "agent/"

// worktreeInfo describes one linked worktree holding an agent branch,
// discovered from git metadata rather than in-process state so it also covers
// workspaces left behind by earlier runs.
type worktreeInfo struct {
	Path   string `json:"path"`
	Branch string `json:"branch"`
	Agent  string `json:"agent"`
	TaskID string `json:"task_id"`
}

// AddWorkspacesCommand adds the `workspaces` command, which lists agent
// worktrees in the current repository.
func AddWorkspacesCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "workspaces",
		Short: "List agent worktrees in the current repository",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			repoRoot, err := git.DetectRepoRoot(ctx, ".")
			if err != nil {
				return err
			}

			out, err := git.RunCommand(ctx, repoRoot, "worktree", "list", "--porcelain")
			if err != nil {
				return err
			}
			infos := parseAgentWorktrees(out)

			w := cmd.OutOrStdout()
			if flags.Output == OutputJSON {
				return writeJSON(w, infos)
			}
			renderWorkspaces(w, infos)
			return nil
		},
	}

	root.AddCommand(cmd)
}

// parseAgentWorktrees extracts agent worktrees from `git worktree list
// --porcelain` output. Worktrees on non-agent branches (the main checkout
// included) are skipped.
func parseAgentWorktrees(out string) []worktreeInfo {
	var infos []worktreeInfo
	var current worktreeInfo

	flush := func() {
		if current.Path != "" && strings.HasPrefix(current.Branch, agentBranchPrefix) {
			parts := strings.SplitN(current.Branch, "/", 3)
			if len(parts) == 3 {
				current.Agent = parts[1]
				current.TaskID = parts[2]
				infos = append(infos, current)
			}
		}
		current = worktreeInfo{}
	}

	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "branch refs/heads/"):
			current.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		}
	}
	flush()
	return infos
}
