package domain

// MergeRecommendation is the comparison engine's categorical verdict on what
// to do with the winning implementation.
type MergeRecommendation string

// Merge recommendation constants, strongest first.
const (
	// RecommendAutoMerge indicates the top implementation is decisively
	// better, meets the quality threshold and passes its tests.
	RecommendAutoMerge MergeRecommendation = "auto_merge"

	// RecommendWithReview indicates the top implementation meets the quality
	// threshold but the gap to second place is too small to merge blindly.
	RecommendWithReview MergeRecommendation = "recommend_with_review"

	// RecommendManualComparison indicates no implementation is clearly good
	// enough; a human must compare them.
	RecommendManualComparison MergeRecommendation = "manual_comparison_required"
)

// String returns the string representation of the MergeRecommendation.
func (r MergeRecommendation) String() string {
	return string(r)
}

// Rank orders recommendations by strength: auto_merge > recommend_with_review
// > manual_comparison_required. Used in tests to assert monotonicity.
func (r MergeRecommendation) Rank() int {
	switch r {
	case RecommendAutoMerge:
		return 2
	case RecommendWithReview:
		return 1
	case RecommendManualComparison:
		return 0
	}
	return -1
}

// ComparisonReport compares every implementation produced for one logical
// task. Built once by the comparison engine and read-only thereafter.
type ComparisonReport struct {
	// TaskID is the logical task all compared jobs implemented.
	TaskID string `json:"task_id"`

	// Jobs is every job considered, terminal-state included. Jobs that did
	// not complete are listed for visibility but excluded from scoring.
	Jobs []*Job `json:"jobs"`

	// Scores maps job ID to the quality score of its implementation.
	// Only completed jobs have entries.
	Scores map[string]QualityScore `json:"scores"`

	// TestResults maps job ID to whether the implementation's tests passed.
	TestResults map[string]bool `json:"test_results"`

	// Diffs holds pairwise diff summaries between implementations,
	// keyed "agentA_vs_agentB".
	Diffs map[string]string `json:"diffs,omitempty"`

	// Best is the selected top-ranked job.
	Best *Job `json:"best"`

	// Recommendation is the categorical merge verdict.
	Recommendation MergeRecommendation `json:"recommendation"`

	// Confidence is the engine's confidence in the recommendation, in [0,1].
	Confidence float64 `json:"confidence"`

	// Analysis is a human-readable summary of the comparison.
	Analysis string `json:"analysis,omitempty"`
}

// Score returns the composite score for a job ID, or zero if absent.
func (r *ComparisonReport) Score(jobID string) float64 {
	return r.Scores[jobID].Composite
}
