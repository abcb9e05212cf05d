package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
)

// metricsFile is the on-disk shape of a quality metrics report: raw
// measurements keyed by agent name.
type metricsFile struct {
	Metrics map[string]metricsRecord `yaml:"metrics"`
}

// metricsRecord mirrors domain.Metrics for YAML decoding.
type metricsRecord struct {
	CoveragePercent      float64 `yaml:"coverage_percent"`
	TestPassRate         float64 `yaml:"test_pass_rate"`
	StaticAnalysisScore  float64 `yaml:"static_analysis_score"`
	CyclomaticComplexity float64 `yaml:"cyclomatic_complexity"`
	IssueCount           int     `yaml:"issue_count"`
	CriticalIssues       int     `yaml:"critical_issues"`
	LineCount            int     `yaml:"line_count"`
	FileCount            int     `yaml:"file_count"`
}

// loadMetrics reads a metrics report file and returns measurements keyed by
// agent. Unknown agent names and unknown fields are rejected so a typo never
// silently zeroes an implementation's score.
func loadMetrics(path string) (map[domain.Agent]domain.Metrics, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from a CLI flag
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics file: %w", err)
	}
	return parseMetrics(data)
}

// parseMetrics decodes metrics report content.
func parseMetrics(data []byte) (map[domain.Agent]domain.Metrics, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f metricsFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse metrics file: %w", err)
	}
	if len(f.Metrics) == 0 {
		return nil, fmt.Errorf("%w: metrics file holds no entries", qerrors.ErrEmptyValue)
	}

	result := make(map[domain.Agent]domain.Metrics, len(f.Metrics))
	for name, rec := range f.Metrics {
		a := domain.Agent(name)
		if !a.IsValid() {
			return nil, fmt.Errorf("%w: %q in metrics file", qerrors.ErrUnknownAgent, name)
		}
		result[a] = domain.Metrics{
			CoveragePercent:      rec.CoveragePercent,
			TestPassRate:         rec.TestPassRate,
			StaticAnalysisScore:  rec.StaticAnalysisScore,
			CyclomaticComplexity: rec.CyclomaticComplexity,
			IssueCount:           rec.IssueCount,
			CriticalIssues:       rec.CriticalIssues,
			LineCount:            rec.LineCount,
			FileCount:            rec.FileCount,
		}
	}
	return result, nil
}

// metricsByJob rekeys agent-level metrics onto job IDs. Jobs whose agent has
// no entry are left out; the collector reports them as unmeasured.
func metricsByJob(jobs []*domain.Job, byAgent map[domain.Agent]domain.Metrics) map[string]domain.Metrics {
	result := make(map[string]domain.Metrics, len(jobs))
	for _, j := range jobs {
		if m, ok := byAgent[j.Assignment.Agent]; ok {
			result[j.ID] = m
		}
	}
	return result
}
