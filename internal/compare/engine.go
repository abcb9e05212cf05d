package compare

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mrz1836/quorum/internal/constants"
	"github.com/mrz1836/quorum/internal/ctxutil"
	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
)

// Confidence model coefficients. Confidence blends the winner's absolute
// quality, how decisively it beat second place, and whether its tests pass.
const (
	confScoreWeight = 0.4
	confGapWeight   = 0.3
	confGapCeiling  = 30.0
	confTestBonus   = 0.3
	confTestPenalty = 0.2
)

// Options configures the comparison engine.
type Options struct {
	// Weights is the metric weighting. Zero value means DefaultWeights.
	Weights Weights

	// MinQualityScore is the composite a winner must reach before any merge
	// is recommended. Zero means constants.DefaultMinQualityScore.
	MinQualityScore float64

	// DecisivenessMargin is the lead over second place required for an
	// auto-merge verdict. Zero means constants.DefaultDecisivenessMargin.
	DecisivenessMargin float64

	// MinConfidence is the confidence floor for an auto-merge verdict.
	// Zero means constants.DefaultMinConfidence.
	MinConfidence float64

	// Diff optionally produces pairwise change-set summaries.
	Diff DiffAnalyzer

	// BaseRef is the ref diffs are taken against.
	// Empty means constants.DefaultBaseRef.
	BaseRef string

	// Logger receives engine diagnostics.
	Logger zerolog.Logger
}

// Engine ranks the implementations produced for one task and recommends what
// to do with the winner.
type Engine struct {
	collector Collector
	opts      Options
}

// NewEngine creates a comparison engine around a metrics collector.
func NewEngine(collector Collector, opts Options) (*Engine, error) {
	if collector == nil {
		return nil, fmt.Errorf("%w: collector is required", qerrors.ErrEmptyValue)
	}

	if opts.Weights == (Weights{}) {
		opts.Weights = DefaultWeights()
	}
	if err := opts.Weights.Validate(); err != nil {
		return nil, err
	}
	if opts.MinQualityScore <= 0 {
		opts.MinQualityScore = constants.DefaultMinQualityScore
	}
	if opts.DecisivenessMargin <= 0 {
		opts.DecisivenessMargin = constants.DefaultDecisivenessMargin
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = constants.DefaultMinConfidence
	}
	if opts.BaseRef == "" {
		opts.BaseRef = constants.DefaultBaseRef
	}

	return &Engine{collector: collector, opts: opts}, nil
}

// Compare scores every successful job for one task and builds the comparison
// report. Jobs in other terminal states are listed for visibility but never
// scored. At least one job must have succeeded and produced metrics.
func (e *Engine) Compare(ctx context.Context, jobs []*domain.Job) (*domain.ComparisonReport, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: no jobs to compare", qerrors.ErrEmptyValue)
	}

	taskID := jobs[0].Assignment.TaskID
	for _, j := range jobs {
		if j.Assignment.TaskID != taskID {
			return nil, fmt.Errorf("%w: %s vs %s", qerrors.ErrTaskMismatch, taskID, j.Assignment.TaskID)
		}
	}

	var candidates []*domain.Job
	for _, j := range jobs {
		if j.Success() {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: task %s", qerrors.ErrNoViableImplementation, taskID)
	}

	metrics, failures := collectAll(ctx, e.collector, candidates)
	for jobID, err := range failures {
		e.opts.Logger.Warn().Err(err).
			Str("job_id", jobID).
			Msg("metrics collection failed, excluding job from scoring")
	}

	scores := make(map[string]domain.QualityScore, len(metrics))
	testResults := make(map[string]bool, len(metrics))
	var scored []*domain.Job
	for _, j := range candidates {
		m, ok := metrics[j.ID]
		if !ok {
			continue
		}
		scores[j.ID] = ComputeScore(m, e.opts.Weights)
		testResults[j.ID] = TestsPass(m)
		scored = append(scored, j)
	}
	if len(scored) == 0 {
		return nil, fmt.Errorf("%w: task %s: all metric collections failed", qerrors.ErrNoViableImplementation, taskID)
	}

	rankJobs(scored, scores)
	best := scored[0]

	top := scores[best.ID].Composite
	second := 0.0
	if len(scored) > 1 {
		second = scores[scored[1].ID].Composite
	}
	gap := top - second

	confidence := computeConfidence(top, gap, testResults[best.ID])
	recommendation := e.recommend(top, gap, testResults[best.ID], confidence)

	report := &domain.ComparisonReport{
		TaskID:         taskID,
		Jobs:           jobs,
		Scores:         scores,
		TestResults:    testResults,
		Best:           best,
		Recommendation: recommendation,
		Confidence:     confidence,
	}
	report.Diffs = e.pairwiseDiffs(ctx, scored)
	report.Analysis = buildAnalysis(report, scored, gap)

	e.opts.Logger.Info().
		Str("task_id", taskID).
		Str("best_agent", string(best.Assignment.Agent)).
		Float64("score", top).
		Float64("gap", gap).
		Float64("confidence", confidence).
		Str("recommendation", recommendation.String()).
		Msg("comparison complete")

	return report, nil
}

// recommend maps the winner's standing onto a merge verdict. Auto-merge
// demands all of: threshold quality, a decisive lead, passing tests, and
// sufficient confidence. Threshold quality alone earns a reviewed merge.
func (e *Engine) recommend(top, gap float64, testsPass bool, confidence float64) domain.MergeRecommendation {
	switch {
	case top >= e.opts.MinQualityScore &&
		gap > e.opts.DecisivenessMargin &&
		testsPass &&
		confidence >= e.opts.MinConfidence:
		return domain.RecommendAutoMerge
	case top >= e.opts.MinQualityScore:
		return domain.RecommendWithReview
	default:
		return domain.RecommendManualComparison
	}
}

// pairwiseDiffs summarizes the change-set overlap between every pair of
// scored implementations. Diff failures degrade to a missing entry.
func (e *Engine) pairwiseDiffs(ctx context.Context, scored []*domain.Job) map[string]string {
	if e.opts.Diff == nil || len(scored) < 2 {
		return nil
	}

	files := make(map[string][]string, len(scored))
	for _, j := range scored {
		if j.Workspace == nil {
			continue
		}
		changed, err := e.opts.Diff.ChangedFiles(ctx, j.Workspace.Branch, e.opts.BaseRef)
		if err != nil {
			e.opts.Logger.Warn().Err(err).
				Str("branch", j.Workspace.Branch).
				Msg("diff failed, skipping branch")
			continue
		}
		files[j.ID] = changed
	}

	diffs := make(map[string]string)
	for i := 0; i < len(scored); i++ {
		for k := i + 1; k < len(scored); k++ {
			a, b := scored[i], scored[k]
			fa, okA := files[a.ID]
			fb, okB := files[b.ID]
			if !okA || !okB {
				continue
			}
			key := string(a.Assignment.Agent) + "_vs_" + string(b.Assignment.Agent)
			diffs[key] = summarizeDiff(string(a.Assignment.Agent), fa, string(b.Assignment.Agent), fb)
		}
	}
	if len(diffs) == 0 {
		return nil
	}
	return diffs
}

// rankJobs sorts scored jobs best-first: composite descending, then fewer
// critical findings, then earlier start time for determinism.
func rankJobs(jobs []*domain.Job, scores map[string]domain.QualityScore) {
	sort.SliceStable(jobs, func(i, k int) bool {
		si, sk := scores[jobs[i].ID], scores[jobs[k].ID]
		if si.Composite != sk.Composite {
			return si.Composite > sk.Composite
		}
		if si.Metrics.CriticalIssues != sk.Metrics.CriticalIssues {
			return si.Metrics.CriticalIssues < sk.Metrics.CriticalIssues
		}
		return jobs[i].StartedAt.Before(jobs[k].StartedAt)
	})
}

// computeConfidence blends absolute quality, decisiveness, and test outcome
// into [0,1].
func computeConfidence(top, gap float64, testsPass bool) float64 {
	c := confScoreWeight*(top/100) + confGapWeight*math.Min(1, gap/confGapCeiling)
	if testsPass {
		c += confTestBonus
	} else {
		c -= confTestPenalty
	}
	return math.Min(1, math.Max(0, c))
}
