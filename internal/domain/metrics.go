package domain

// Metrics holds the raw quality measurements gathered for one implementation
// by the pluggable collectors. The comparison engine only normalizes and
// aggregates these values; it never collects them itself.
type Metrics struct {
	// CoveragePercent is the test coverage percentage in [0,100].
	CoveragePercent float64 `json:"coverage_percent"`

	// TestPassRate is the percentage of tests passing in [0,100].
	TestPassRate float64 `json:"test_pass_rate"`

	// StaticAnalysisScore is the static-analysis quality score in [0,100].
	StaticAnalysisScore float64 `json:"static_analysis_score"`

	// CyclomaticComplexity is the average cyclomatic complexity figure.
	// Lower is better; it is normalized before weighting.
	CyclomaticComplexity float64 `json:"cyclomatic_complexity"`

	// IssueCount is the total number of static-analysis findings.
	IssueCount int `json:"issue_count"`

	// CriticalIssues is the number of critical findings. Used both in the
	// composite score and as the first tie-breaker between equal scores.
	CriticalIssues int `json:"critical_issues"`

	// LineCount is the total lines of changed code, informational only.
	LineCount int `json:"line_count"`

	// FileCount is the number of changed files, informational only.
	FileCount int `json:"file_count"`
}

// QualityScore is the normalized, weighted composite used to rank completed
// jobs. Each component is in [0,100] after normalization; the composite is
// bounded to [0,100].
type QualityScore struct {
	// Composite is the weighted overall score in [0,100].
	Composite float64 `json:"composite"`

	// Components holds the normalized per-metric values that were weighted
	// into the composite, keyed by metric name.
	Components map[string]float64 `json:"components"`

	// Metrics are the raw measurements the score was computed from.
	Metrics Metrics `json:"metrics"`
}
