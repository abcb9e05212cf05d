package domain

import (
	"time"

	"github.com/mrz1836/quorum/internal/constants"
)

// Job is the schedulable unit representing one assignment's execution inside
// a workspace. Jobs are created pending, transition to running when they
// acquire a concurrency slot, and end in exactly one terminal state.
//
// The coordinator owns all job mutation; everything else reads snapshots.
type Job struct {
	// ID is the unique job identifier (UUID).
	ID string `json:"id"`

	// Assignment is the (agent, task) pairing this job satisfies.
	Assignment Assignment `json:"assignment"`

	// Workspace is the isolated workspace the job runs in.
	Workspace *Workspace `json:"workspace"`

	// Status is the current state in the job lifecycle.
	Status constants.JobStatus `json:"status"`

	// StartedAt is when the job entered the running state (zero until then).
	StartedAt time.Time `json:"started_at,omitzero"`

	// EndedAt is when the job reached a terminal state (zero until then).
	EndedAt time.Time `json:"ended_at,omitzero"`

	// Logs is the append-only, timestamp-ordered execution log.
	Logs []LogEntry `json:"logs,omitempty"`

	// Result is the terminal result payload from the agent invocation.
	// Nil for jobs that never produced one (cancelled before running,
	// timed out, transport failure).
	Result *AgentResult `json:"result,omitempty"`

	// Timeout is the per-job timeout. Zero means the coordinator default.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// LogEntry is a single timestamped log line. Within one job, entries are
// strictly ordered by timestamp; no cross-job ordering is promised.
type LogEntry struct {
	// Time is the monotonic-clock-backed timestamp of the line.
	Time time.Time `json:"time"`

	// Line is the log message.
	Line string `json:"line"`
}

// AgentResult is the payload an agent invocation returns.
type AgentResult struct {
	// Output is the agent's final output text.
	Output string `json:"output,omitempty"`

	// ExitCode is the agent process exit code. Zero indicates success.
	ExitCode int `json:"exit_code"`
}

// IsTerminal reports whether the job reached a terminal state.
func (j *Job) IsTerminal() bool {
	switch j.Status {
	case constants.JobStatusCompleted, constants.JobStatusFailed,
		constants.JobStatusTimeout, constants.JobStatusCancelled:
		return true
	case constants.JobStatusPending, constants.JobStatusRunning:
		return false
	}
	return false
}

// Duration derives the execution duration. It returns zero until both the
// start and end timestamps are present; duration is never stored redundantly.
func (j *Job) Duration() time.Duration {
	if j.StartedAt.IsZero() || j.EndedAt.IsZero() {
		return 0
	}
	return j.EndedAt.Sub(j.StartedAt)
}

// Success derives whether the job succeeded: completed status with a result
// payload indicating a non-error outcome.
func (j *Job) Success() bool {
	return j.Status == constants.JobStatusCompleted &&
		j.Result != nil && j.Result.ExitCode == 0
}

// LastLog returns the most recent log line, or empty if none.
func (j *Job) LastLog() string {
	if len(j.Logs) == 0 {
		return ""
	}
	return j.Logs[len(j.Logs)-1].Line
}

// Clone returns a deep copy of the job, safe to hand to concurrent readers.
func (j *Job) Clone() *Job {
	cp := *j
	if j.Workspace != nil {
		ws := *j.Workspace
		cp.Workspace = &ws
	}
	if j.Result != nil {
		res := *j.Result
		cp.Result = &res
	}
	cp.Logs = make([]LogEntry, len(j.Logs))
	copy(cp.Logs, j.Logs)
	cp.Assignment.SecondaryAgents = append([]Agent(nil), j.Assignment.SecondaryAgents...)
	return &cp
}
