package compare

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/quorum/internal/constants"
	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
)

func completedJob(id string, agentID domain.Agent, taskID string) *domain.Job {
	return &domain.Job{
		ID:         id,
		Assignment: domain.Assignment{TaskID: taskID, Agent: agentID},
		Workspace: &domain.Workspace{
			Agent:  agentID,
			TaskID: taskID,
			Branch: "agent/" + string(agentID) + "/" + taskID,
		},
		Status:    constants.JobStatusCompleted,
		StartedAt: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		Result:    &domain.AgentResult{ExitCode: 0},
	}
}

// metricsFor builds metrics that score approximately the given composite with
// a fully passing test suite.
func metricsFor(score float64) domain.Metrics {
	return domain.Metrics{
		CoveragePercent:      score,
		TestPassRate:         100,
		StaticAnalysisScore:  score,
		CyclomaticComplexity: (100 - score) / 5,
		CriticalIssues:       0,
	}
}

func newTestEngine(t *testing.T, metrics map[string]domain.Metrics, opts Options) *Engine {
	t.Helper()
	e, err := NewEngine(&StaticCollector{Metrics: metrics}, opts)
	require.NoError(t, err)
	return e
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	t.Run("nil collector rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewEngine(nil, Options{})
		assert.ErrorIs(t, err, qerrors.ErrEmptyValue)
	})

	t.Run("invalid weights rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewEngine(&StaticCollector{}, Options{Weights: Weights{Coverage: 0.5}})
		assert.ErrorIs(t, err, qerrors.ErrInvalidWeights)
	})

	t.Run("defaults applied", func(t *testing.T) {
		t.Parallel()
		e, err := NewEngine(&StaticCollector{}, Options{})
		require.NoError(t, err)
		assert.Equal(t, DefaultWeights(), e.opts.Weights)
		assert.InDelta(t, constants.DefaultMinQualityScore, e.opts.MinQualityScore, 1e-9)
		assert.InDelta(t, constants.DefaultDecisivenessMargin, e.opts.DecisivenessMargin, 1e-9)
		assert.InDelta(t, constants.DefaultMinConfidence, e.opts.MinConfidence, 1e-9)
	})
}

func TestCompare(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("decisive winner gets auto merge", func(t *testing.T) {
		t.Parallel()
		a := completedJob("j1", domain.AgentClaude, "task-1")
		b := completedJob("j2", domain.AgentCodex, "task-1")
		e := newTestEngine(t, map[string]domain.Metrics{
			"j1": metricsFor(85),
			"j2": metricsFor(60),
		}, Options{})

		report, err := e.Compare(ctx, []*domain.Job{a, b})
		require.NoError(t, err)

		assert.Equal(t, "j1", report.Best.ID)
		assert.Equal(t, domain.RecommendAutoMerge, report.Recommendation)
		assert.Greater(t, report.Confidence, 0.5)
		assert.Greater(t, report.Score("j1"), report.Score("j2"))
	})

	t.Run("narrow lead downgrades to review", func(t *testing.T) {
		t.Parallel()
		a := completedJob("j1", domain.AgentClaude, "task-1")
		b := completedJob("j2", domain.AgentCodex, "task-1")
		e := newTestEngine(t, map[string]domain.Metrics{
			"j1": metricsFor(72),
			"j2": metricsFor(70),
		}, Options{})

		report, err := e.Compare(ctx, []*domain.Job{a, b})
		require.NoError(t, err)

		assert.Equal(t, "j1", report.Best.ID)
		assert.Equal(t, domain.RecommendWithReview, report.Recommendation)
	})

	t.Run("below quality bar requires manual comparison", func(t *testing.T) {
		t.Parallel()
		a := completedJob("j1", domain.AgentClaude, "task-1")
		e := newTestEngine(t, map[string]domain.Metrics{"j1": metricsFor(50)}, Options{})

		report, err := e.Compare(ctx, []*domain.Job{a})
		require.NoError(t, err)
		assert.Equal(t, domain.RecommendManualComparison, report.Recommendation)
	})

	t.Run("failing tests block auto merge", func(t *testing.T) {
		t.Parallel()
		a := completedJob("j1", domain.AgentClaude, "task-1")
		m := metricsFor(90)
		m.TestPassRate = 80
		e := newTestEngine(t, map[string]domain.Metrics{"j1": m}, Options{})

		report, err := e.Compare(ctx, []*domain.Job{a})
		require.NoError(t, err)
		assert.False(t, report.TestResults["j1"])
		assert.NotEqual(t, domain.RecommendAutoMerge, report.Recommendation)
	})

	t.Run("stronger winner never yields weaker verdict", func(t *testing.T) {
		t.Parallel()
		loser := metricsFor(55)
		prev := -1
		for _, winner := range []float64{60, 72, 78, 90, 98} {
			a := completedJob("j1", domain.AgentClaude, "task-1")
			b := completedJob("j2", domain.AgentCodex, "task-1")
			e := newTestEngine(t, map[string]domain.Metrics{
				"j1": metricsFor(winner),
				"j2": loser,
			}, Options{})

			report, err := e.Compare(ctx, []*domain.Job{a, b})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, report.Recommendation.Rank(), prev,
				"winner score %.0f", winner)
			prev = report.Recommendation.Rank()
		}
	})

	t.Run("non-successful jobs listed but not scored", func(t *testing.T) {
		t.Parallel()
		ok := completedJob("j1", domain.AgentClaude, "task-1")
		timedOut := &domain.Job{
			ID:         "j2",
			Assignment: domain.Assignment{TaskID: "task-1", Agent: domain.AgentCodex},
			Status:     constants.JobStatusTimeout,
		}
		e := newTestEngine(t, map[string]domain.Metrics{"j1": metricsFor(85)}, Options{})

		report, err := e.Compare(ctx, []*domain.Job{ok, timedOut})
		require.NoError(t, err)
		assert.Len(t, report.Jobs, 2)
		assert.Len(t, report.Scores, 1)
		assert.NotContains(t, report.Scores, "j2")
		assert.Contains(t, report.Analysis, "did not produce a scorable implementation")
	})

	t.Run("no successful jobs", func(t *testing.T) {
		t.Parallel()
		failed := &domain.Job{
			ID:         "j1",
			Assignment: domain.Assignment{TaskID: "task-1", Agent: domain.AgentClaude},
			Status:     constants.JobStatusFailed,
		}
		e := newTestEngine(t, nil, Options{})

		_, err := e.Compare(ctx, []*domain.Job{failed})
		assert.ErrorIs(t, err, qerrors.ErrNoViableImplementation)
	})

	t.Run("all collections failing", func(t *testing.T) {
		t.Parallel()
		a := completedJob("j1", domain.AgentClaude, "task-1")
		e := newTestEngine(t, map[string]domain.Metrics{}, Options{})

		_, err := e.Compare(ctx, []*domain.Job{a})
		assert.ErrorIs(t, err, qerrors.ErrNoViableImplementation)
	})

	t.Run("mixed tasks rejected", func(t *testing.T) {
		t.Parallel()
		a := completedJob("j1", domain.AgentClaude, "task-1")
		b := completedJob("j2", domain.AgentCodex, "task-2")
		e := newTestEngine(t, nil, Options{})

		_, err := e.Compare(ctx, []*domain.Job{a, b})
		assert.ErrorIs(t, err, qerrors.ErrTaskMismatch)
	})

	t.Run("empty input rejected", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(t, nil, Options{})

		_, err := e.Compare(ctx, nil)
		assert.ErrorIs(t, err, qerrors.ErrEmptyValue)
	})

	t.Run("tie broken by fewer critical issues", func(t *testing.T) {
		t.Parallel()
		a := completedJob("j1", domain.AgentClaude, "task-1")
		b := completedJob("j2", domain.AgentCodex, "task-1")

		// Same composite by construction: the critical penalty on j1 is
		// offset by higher coverage.
		mA := domain.Metrics{CoveragePercent: 80, TestPassRate: 100, StaticAnalysisScore: 80, CriticalIssues: 2}
		mB := domain.Metrics{CoveragePercent: 80, TestPassRate: 100, StaticAnalysisScore: 90, CriticalIssues: 3}
		mB.CoveragePercent -= (0.20*10 - 0.10*10) / 0.30

		e := newTestEngine(t, map[string]domain.Metrics{"j1": mA, "j2": mB}, Options{})
		report, err := e.Compare(ctx, []*domain.Job{a, b})
		require.NoError(t, err)
		require.InDelta(t, report.Score("j1"), report.Score("j2"), 1e-6)
		assert.Equal(t, "j1", report.Best.ID)
	})

	t.Run("tie broken by earlier start when criticals equal", func(t *testing.T) {
		t.Parallel()
		a := completedJob("j1", domain.AgentClaude, "task-1")
		b := completedJob("j2", domain.AgentCodex, "task-1")
		b.StartedAt = a.StartedAt.Add(time.Minute)

		m := metricsFor(85)
		e := newTestEngine(t, map[string]domain.Metrics{"j1": m, "j2": m}, Options{})

		report, err := e.Compare(ctx, []*domain.Job{b, a})
		require.NoError(t, err)
		assert.Equal(t, "j1", report.Best.ID)
	})

	t.Run("deterministic across input orderings", func(t *testing.T) {
		t.Parallel()
		metrics := map[string]domain.Metrics{
			"j1": metricsFor(85),
			"j2": metricsFor(60),
			"j3": metricsFor(75),
		}
		jobs := []*domain.Job{
			completedJob("j1", domain.AgentClaude, "task-1"),
			completedJob("j2", domain.AgentCodex, "task-1"),
			completedJob("j3", domain.AgentGemini, "task-1"),
		}
		reversed := []*domain.Job{jobs[2], jobs[1], jobs[0]}

		e := newTestEngine(t, metrics, Options{})
		r1, err := e.Compare(ctx, jobs)
		require.NoError(t, err)
		r2, err := e.Compare(ctx, reversed)
		require.NoError(t, err)

		assert.Equal(t, r1.Best.ID, r2.Best.ID)
		assert.Equal(t, r1.Recommendation, r2.Recommendation)
		assert.InDelta(t, r1.Confidence, r2.Confidence, 1e-9)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(t, nil, Options{})
		cctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := e.Compare(cctx, []*domain.Job{completedJob("j1", domain.AgentClaude, "task-1")})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestComputeConfidence(t *testing.T) {
	t.Parallel()

	t.Run("clamped to one", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 1.0, computeConfidence(100, 100, true), 1e-9)
	})

	t.Run("clamped to zero", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, computeConfidence(0, 0, false))
	})

	t.Run("formula", func(t *testing.T) {
		t.Parallel()
		// 0.4*(80/100) + 0.3*min(1, 15/30) + 0.3
		assert.InDelta(t, 0.32+0.15+0.3, computeConfidence(80, 15, true), 1e-9)
		// Failing tests subtract instead of add.
		assert.InDelta(t, 0.32+0.15-0.2, computeConfidence(80, 15, false), 1e-9)
	})
}
