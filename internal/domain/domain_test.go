package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/quorum/internal/constants"
	qerrors "github.com/mrz1836/quorum/internal/errors"
)

func TestAgentIsValid(t *testing.T) {
	t.Parallel()

	for _, a := range AllAgents() {
		assert.True(t, a.IsValid(), "agent %s should be valid", a)
	}
	assert.False(t, Agent("copilot-x").IsValid())
	assert.False(t, Agent("").IsValid())
}

func TestAssignmentValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      Assignment
		wantErr error
	}{
		{
			name: "valid",
			in:   Assignment{TaskID: "t-1", Agent: AgentClaude},
		},
		{
			name:    "missing task id",
			in:      Assignment{Agent: AgentClaude},
			wantErr: qerrors.ErrEmptyValue,
		},
		{
			name:    "missing agent",
			in:      Assignment{TaskID: "t-1"},
			wantErr: qerrors.ErrEmptyValue,
		},
		{
			name:    "unknown agent",
			in:      Assignment{TaskID: "t-1", Agent: Agent("hal9000")},
			wantErr: qerrors.ErrUnknownAgent,
		},
		{
			name: "unknown secondary agent",
			in: Assignment{
				TaskID:          "t-1",
				Agent:           AgentClaude,
				SecondaryAgents: []Agent{AgentCodex, Agent("skynet")},
			},
			wantErr: qerrors.ErrUnknownAgent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.in.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWorkspaceKey(t *testing.T) {
	t.Parallel()

	ws := &Workspace{Agent: AgentCodex, TaskID: "task-2.1"}
	assert.Equal(t, "codex/task-2.1", ws.Key())
	assert.Equal(t, ws.Key(), WorkspaceKey(AgentCodex, "task-2.1"))

	// Distinct pairs must never collide.
	assert.NotEqual(t, WorkspaceKey(AgentClaude, "task-2.1"), ws.Key())
	assert.NotEqual(t, WorkspaceKey(AgentCodex, "task-2.2"), ws.Key())
}

func TestJobIsTerminal(t *testing.T) {
	t.Parallel()

	terminal := []constants.JobStatus{
		constants.JobStatusCompleted,
		constants.JobStatusFailed,
		constants.JobStatusTimeout,
		constants.JobStatusCancelled,
	}
	for _, s := range terminal {
		j := &Job{Status: s}
		assert.True(t, j.IsTerminal(), "status %s should be terminal", s)
	}

	for _, s := range []constants.JobStatus{constants.JobStatusPending, constants.JobStatusRunning} {
		j := &Job{Status: s}
		assert.False(t, j.IsTerminal(), "status %s should not be terminal", s)
	}
}

func TestJobDuration(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	t.Run("derived from timestamps", func(t *testing.T) {
		t.Parallel()
		j := &Job{StartedAt: start, EndedAt: start.Add(90 * time.Second)}
		assert.Equal(t, 90*time.Second, j.Duration())
	})

	t.Run("zero until both timestamps present", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, (&Job{}).Duration())
		assert.Zero(t, (&Job{StartedAt: start}).Duration())
		assert.Zero(t, (&Job{EndedAt: start}).Duration())
	})
}

func TestJobSuccess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		job    Job
		expect bool
	}{
		{
			name:   "completed with zero exit code",
			job:    Job{Status: constants.JobStatusCompleted, Result: &AgentResult{ExitCode: 0}},
			expect: true,
		},
		{
			name:   "completed with non-zero exit code",
			job:    Job{Status: constants.JobStatusCompleted, Result: &AgentResult{ExitCode: 2}},
			expect: false,
		},
		{
			name:   "completed without result payload",
			job:    Job{Status: constants.JobStatusCompleted},
			expect: false,
		},
		{
			name:   "failed with zero exit code",
			job:    Job{Status: constants.JobStatusFailed, Result: &AgentResult{ExitCode: 0}},
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, tt.job.Success())
		})
	}
}

func TestJobClone(t *testing.T) {
	t.Parallel()

	orig := &Job{
		ID: "j-1",
		Assignment: Assignment{
			TaskID:          "t-1",
			Agent:           AgentClaude,
			SecondaryAgents: []Agent{AgentCodex},
		},
		Workspace: &Workspace{Agent: AgentClaude, TaskID: "t-1", Port: 3000},
		Status:    constants.JobStatusRunning,
		Logs:      []LogEntry{{Time: time.Now(), Line: "starting"}},
		Result:    &AgentResult{Output: "ok"},
	}

	cp := orig.Clone()
	require.NotSame(t, orig, cp)
	require.NotSame(t, orig.Workspace, cp.Workspace)
	require.NotSame(t, orig.Result, cp.Result)
	assert.Equal(t, orig.ID, cp.ID)

	// Mutating the clone must not leak into the original.
	cp.Logs = append(cp.Logs, LogEntry{Line: "extra"})
	cp.Workspace.Port = 9999
	cp.Assignment.SecondaryAgents[0] = AgentGemini

	assert.Len(t, orig.Logs, 1)
	assert.Equal(t, 3000, orig.Workspace.Port)
	assert.Equal(t, AgentCodex, orig.Assignment.SecondaryAgents[0])
}

func TestMergeRecommendationRank(t *testing.T) {
	t.Parallel()

	assert.Greater(t, RecommendAutoMerge.Rank(), RecommendWithReview.Rank())
	assert.Greater(t, RecommendWithReview.Rank(), RecommendManualComparison.Rank())
	assert.Equal(t, -1, MergeRecommendation("bogus").Rank())
}

func TestJobLastLog(t *testing.T) {
	t.Parallel()

	j := &Job{}
	assert.Empty(t, j.LastLog())

	j.Logs = append(j.Logs, LogEntry{Line: "first"}, LogEntry{Line: "second"})
	assert.Equal(t, "second", j.LastLog())
}
