package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/quorum/internal/constants"
	"github.com/mrz1836/quorum/internal/domain"
)

// Semantic colors, adaptive for light and dark terminals.
//
//nolint:gochecknoglobals // Package-level styling constants
var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}
	colorError   = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning)
	styleError   = lipgloss.NewStyle().Foreground(colorError)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleBold    = lipgloss.NewStyle().Bold(true)
)

// statusGlyph returns icon + styled text for a job status. Icon, color and
// text are all present so the status reads under any terminal setup.
func statusGlyph(status constants.JobStatus) string {
	switch status {
	case constants.JobStatusCompleted:
		return styleSuccess.Render("✓ " + status.String())
	case constants.JobStatusFailed:
		return styleError.Render("✗ " + status.String())
	case constants.JobStatusTimeout:
		return styleWarning.Render("⏱ " + status.String())
	case constants.JobStatusCancelled:
		return styleMuted.Render("⊘ " + status.String())
	case constants.JobStatusRunning:
		return styleBold.Render("▶ " + status.String())
	case constants.JobStatusPending:
		return styleMuted.Render("· " + status.String())
	default:
		return status.String()
	}
}

// writeJSON renders any value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderJobs writes a human-readable job table.
func renderJobs(w io.Writer, jobs []*domain.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, styleMuted.Render("no jobs"))
		return
	}

	for _, j := range jobs {
		dur := ""
		if d := j.Duration(); d > 0 {
			dur = "  " + styleMuted.Render(d.Round(time.Second).String())
		}
		fmt.Fprintf(w, "%-10s %-14s %s%s\n",
			j.Assignment.Agent, j.Assignment.TaskID, statusGlyph(j.Status), dur)
		if j.Status != constants.JobStatusCompleted && j.LastLog() != "" {
			fmt.Fprintf(w, "           %s\n", styleMuted.Render(j.LastLog()))
		}
	}
}

// renderWorkspaces writes a human-readable workspace table.
func renderWorkspaces(w io.Writer, workspaces []worktreeInfo) {
	if len(workspaces) == 0 {
		fmt.Fprintln(w, styleMuted.Render("no agent workspaces"))
		return
	}
	for _, ws := range workspaces {
		fmt.Fprintf(w, "%-10s %-14s %-30s %s\n", ws.Agent, ws.TaskID, ws.Branch, ws.Path)
	}
}

// renderReport writes a human-readable comparison report.
func renderReport(w io.Writer, report *domain.ComparisonReport) {
	fmt.Fprintln(w, styleBold.Render("Comparison for task "+report.TaskID))
	fmt.Fprintln(w)

	for _, j := range report.Jobs {
		score, scored := report.Scores[j.ID]
		line := fmt.Sprintf("%-10s %s", j.Assignment.Agent, statusGlyph(j.Status))
		if scored {
			line += fmt.Sprintf("  score %.1f", score.Composite)
			if report.TestResults[j.ID] {
				line += "  " + styleSuccess.Render("tests pass")
			} else {
				line += "  " + styleError.Render("tests fail")
			}
		}
		fmt.Fprintln(w, line)
	}

	if len(report.Diffs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styleBold.Render("Change-set overlap"))
		for pair, summary := range report.Diffs {
			fmt.Fprintf(w, "  %s: %s\n", strings.ReplaceAll(pair, "_vs_", " vs "), summary)
		}
	}

	fmt.Fprintln(w)
	verdict := string(report.Recommendation)
	switch report.Recommendation {
	case domain.RecommendAutoMerge:
		verdict = styleSuccess.Render(verdict)
	case domain.RecommendWithReview:
		verdict = styleWarning.Render(verdict)
	case domain.RecommendManualComparison:
		verdict = styleError.Render(verdict)
	}
	fmt.Fprintf(w, "Best: %s   Recommendation: %s   Confidence: %.2f\n",
		styleBold.Render(string(report.Best.Assignment.Agent)), verdict, report.Confidence)

	if report.Analysis != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, report.Analysis)
	}
}
