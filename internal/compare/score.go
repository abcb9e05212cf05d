package compare

import (
	"math"

	"github.com/mrz1836/quorum/internal/domain"
)

// complexityPenalty is the score deduction per point of average cyclomatic
// complexity.
const complexityPenalty = 5.0

// criticalPenalty is the score deduction per critical static-analysis finding.
const criticalPenalty = 10.0

// ComputeScore normalizes raw metrics into [0,100] components and combines
// them into a weighted composite. Callers validate weights beforehand.
func ComputeScore(m domain.Metrics, w Weights) domain.QualityScore {
	components := map[string]float64{
		ComponentCoverage:   clamp01to100(m.CoveragePercent),
		ComponentTestPass:   clamp01to100(m.TestPassRate),
		ComponentStatic:     clamp01to100(m.StaticAnalysisScore),
		ComponentComplexity: normalizeComplexity(m.CyclomaticComplexity),
		ComponentCritical:   normalizeCritical(m.CriticalIssues),
	}

	composite := components[ComponentCoverage]*w.Coverage +
		components[ComponentTestPass]*w.TestPass +
		components[ComponentStatic]*w.Static +
		components[ComponentComplexity]*w.Complexity +
		components[ComponentCritical]*w.Critical

	return domain.QualityScore{
		Composite:  clamp01to100(composite),
		Components: components,
		Metrics:    m,
	}
}

// normalizeComplexity maps average cyclomatic complexity onto [0,100], where
// complexity 0 scores 100 and every point costs complexityPenalty.
func normalizeComplexity(avg float64) float64 {
	return math.Max(0, 100-complexityPenalty*avg)
}

// normalizeCritical maps the critical-finding count onto [0,100], where each
// finding costs criticalPenalty.
func normalizeCritical(count int) float64 {
	return math.Max(0, 100-criticalPenalty*float64(count))
}

// TestsPass reports whether the metrics indicate a fully passing test suite.
func TestsPass(m domain.Metrics) bool {
	return m.TestPassRate >= 100-1e-9
}

func clamp01to100(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
