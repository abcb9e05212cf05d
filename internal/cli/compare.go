package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/quorum/internal/compare"
	"github.com/mrz1836/quorum/internal/config"
	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
	"github.com/mrz1836/quorum/internal/git"
)

// AddCompareCommand adds the `compare` command, which scores the last run's
// implementations against a metrics report and recommends a merge.
func AddCompareCommand(root *cobra.Command, flags *GlobalFlags) {
	var (
		metricsPath string
		taskID      string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Score the last run's implementations and recommend a merge",
		Long: `Compare loads the results of the most recent 'quorum run', applies the
quality measurements from the given metrics report, ranks the implementations
and issues a merge recommendation with a confidence level.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			applyLogLevel(cfg, flags)
			logger := GetLogger()

			repoRoot, err := git.DetectRepoRoot(ctx, ".")
			if err != nil {
				return err
			}

			record, err := loadRun(repoRoot)
			if err != nil {
				return err
			}
			jobs, err := selectTaskJobs(record.Jobs, taskID)
			if err != nil {
				return err
			}

			byAgent, err := loadMetrics(metricsPath)
			if err != nil {
				return err
			}

			baseRef := record.BaseRef
			if baseRef == "" {
				baseRef = cfg.Workspace.BaseRef
			}

			engine, err := compare.NewEngine(
				&compare.StaticCollector{Metrics: metricsByJob(jobs, byAgent)},
				compare.Options{
					Weights: compare.Weights{
						Coverage:   cfg.Compare.Weights.Coverage,
						TestPass:   cfg.Compare.Weights.TestPass,
						Static:     cfg.Compare.Weights.Static,
						Complexity: cfg.Compare.Weights.Complexity,
						Critical:   cfg.Compare.Weights.Critical,
					},
					MinQualityScore:    cfg.Compare.MinQualityScore,
					DecisivenessMargin: cfg.Compare.DecisivenessMargin,
					MinConfidence:      cfg.Compare.MinConfidence,
					Diff:               &compare.GitDiffAnalyzer{RepoPath: repoRoot},
					BaseRef:            baseRef,
					Logger:             logger,
				})
			if err != nil {
				return err
			}

			report, err := engine.Compare(ctx, jobs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flags.Output == OutputJSON {
				return writeJSON(out, report)
			}
			renderReport(out, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&metricsPath, "metrics", "m", "", "metrics report file (YAML)")
	cmd.Flags().StringVarP(&taskID, "task", "t", "", "task to compare (required when the run covered several)")
	_ = cmd.MarkFlagRequired("metrics")

	root.AddCommand(cmd)
}

// selectTaskJobs narrows a run's jobs to one logical task. With no explicit
// task the run must cover exactly one; otherwise the caller has to choose.
func selectTaskJobs(jobs []*domain.Job, taskID string) ([]*domain.Job, error) {
	if taskID != "" {
		var selected []*domain.Job
		for _, j := range jobs {
			if j.Assignment.TaskID == taskID {
				selected = append(selected, j)
			}
		}
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w: no jobs for task %q in the last run", qerrors.ErrEmptyValue, taskID)
		}
		return selected, nil
	}

	tasks := make(map[string]bool)
	for _, j := range jobs {
		tasks[j.Assignment.TaskID] = true
	}
	if len(tasks) > 1 {
		return nil, fmt.Errorf("%w: the last run covered %d tasks, pass --task", qerrors.ErrTaskMismatch, len(tasks))
	}
	return jobs, nil
}
