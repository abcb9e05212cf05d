package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/quorum/internal/constants"
	"github.com/mrz1836/quorum/internal/git"
)

// AddStatusCommand adds the `status` command, which reports the outcome of
// the most recent run.
func AddStatusCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the results of the most recent run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			repoRoot, err := git.DetectRepoRoot(ctx, ".")
			if err != nil {
				return err
			}
			record, err := loadRun(repoRoot)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flags.Output == OutputJSON {
				return writeJSON(out, record)
			}

			fmt.Fprintf(out, "last run saved %s, base ref %s\n\n",
				record.SavedAt.Local().Format(time.RFC1123), record.BaseRef)
			renderJobs(out, record.Jobs)

			counts := make(map[constants.JobStatus]int)
			for _, j := range record.Jobs {
				counts[j.Status]++
			}
			fmt.Fprintf(out, "\n%d total: %d completed, %d failed, %d timeout, %d cancelled\n",
				len(record.Jobs),
				counts[constants.JobStatusCompleted],
				counts[constants.JobStatusFailed],
				counts[constants.JobStatusTimeout],
				counts[constants.JobStatusCancelled])
			return nil
		},
	}

	root.AddCommand(cmd)
}
