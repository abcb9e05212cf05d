// Package compare scores and ranks the implementations produced for one task
// and turns the ranking into a merge recommendation.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors,
//     internal/git, std lib
//   - MUST NOT import: internal/coordinator, internal/workspace, internal/cli
package compare

import (
	"fmt"
	"math"

	qerrors "github.com/mrz1836/quorum/internal/errors"
)

// Component names used as keys in QualityScore.Components.
const (
	ComponentCoverage   = "coverage"
	ComponentTestPass   = "test_pass"
	ComponentStatic     = "static_analysis"
	ComponentComplexity = "complexity"
	ComponentCritical   = "critical_issues"
)

// Weights assigns the relative importance of each normalized metric in the
// composite score. Weights must be non-negative and sum to 1.0.
type Weights struct {
	Coverage   float64 `json:"coverage" mapstructure:"coverage"`
	TestPass   float64 `json:"test_pass" mapstructure:"test_pass"`
	Static     float64 `json:"static_analysis" mapstructure:"static_analysis"`
	Complexity float64 `json:"complexity" mapstructure:"complexity"`
	Critical   float64 `json:"critical_issues" mapstructure:"critical_issues"`
}

// DefaultWeights returns the standard metric weighting: coverage and test
// results dominate, structural metrics refine.
func DefaultWeights() Weights {
	return Weights{
		Coverage:   0.30,
		TestPass:   0.25,
		Static:     0.20,
		Complexity: 0.15,
		Critical:   0.10,
	}
}

// weightSumTolerance absorbs float accumulation noise when checking that
// weights sum to 1.0.
const weightSumTolerance = 1e-9

// Validate checks that all weights are non-negative and sum to 1.0.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		ComponentCoverage:   w.Coverage,
		ComponentTestPass:   w.TestPass,
		ComponentStatic:     w.Static,
		ComponentComplexity: w.Complexity,
		ComponentCritical:   w.Critical,
	} {
		if v < 0 {
			return fmt.Errorf("%w: weight %s is negative (%.4f)", qerrors.ErrInvalidWeights, name, v)
		}
	}

	sum := w.Coverage + w.TestPass + w.Static + w.Complexity + w.Critical
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: got %.4f", qerrors.ErrInvalidWeights, sum)
	}
	return nil
}
