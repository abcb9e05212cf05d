package compare

import (
	"fmt"
	"strings"

	"github.com/mrz1836/quorum/internal/domain"
)

// buildAnalysis renders the human-readable comparison summary: the ranking,
// each implementation's headline numbers, and what the verdict means.
func buildAnalysis(report *domain.ComparisonReport, ranked []*domain.Job, gap float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Compared %d implementation(s) for task %s.\n", len(ranked), report.TaskID)

	for i, j := range ranked {
		score := report.Scores[j.ID]
		testState := "tests failing"
		if report.TestResults[j.ID] {
			testState = "tests passing"
		}
		fmt.Fprintf(&b, "%d. %s: score %.1f (coverage %.1f%%, %d critical issues, %s)\n",
			i+1, j.Assignment.Agent, score.Composite,
			score.Metrics.CoveragePercent, score.Metrics.CriticalIssues, testState)
	}

	if len(ranked) > 1 {
		fmt.Fprintf(&b, "Winner leads second place by %.1f points.\n", gap)
	}

	skipped := len(report.Jobs) - len(ranked)
	if skipped > 0 {
		fmt.Fprintf(&b, "%d job(s) did not produce a scorable implementation.\n", skipped)
	}

	switch report.Recommendation {
	case domain.RecommendAutoMerge:
		fmt.Fprintf(&b, "Verdict: merge %s automatically (confidence %.2f).",
			report.Best.Assignment.Agent, report.Confidence)
	case domain.RecommendWithReview:
		fmt.Fprintf(&b, "Verdict: merge %s after human review (confidence %.2f).",
			report.Best.Assignment.Agent, report.Confidence)
	case domain.RecommendManualComparison:
		fmt.Fprintf(&b, "Verdict: no implementation meets the quality bar; compare manually (confidence %.2f).",
			report.Confidence)
	}

	return b.String()
}
