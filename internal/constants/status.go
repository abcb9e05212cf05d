package constants

// JobStatus represents the state of a job in the coordinator state machine.
// Status values use snake_case for JSON serialization compatibility.
type JobStatus string

// Job status constants define the valid states a job can be in.
// These follow the state machine:
//
//	Pending → Running, Failed, Cancelled
//	Running → Completed, Failed, Timeout, Cancelled
//
// Completed, Failed, Timeout and Cancelled are terminal: no transition out
// of them is ever valid.
const (
	// JobStatusPending indicates a job is queued but has not acquired a
	// concurrency slot yet.
	JobStatusPending JobStatus = "pending"

	// JobStatusRunning indicates the agent is actively executing the job.
	JobStatusRunning JobStatus = "running"

	// JobStatusCompleted indicates the agent invocation returned without
	// error before the timeout.
	JobStatusCompleted JobStatus = "completed"

	// JobStatusFailed indicates the agent invocation returned an error
	// before the timeout.
	JobStatusFailed JobStatus = "failed"

	// JobStatusTimeout indicates the job exceeded its configured timeout and
	// the underlying operation was abandoned.
	JobStatusTimeout JobStatus = "timeout"

	// JobStatusCancelled indicates an external cancel request ended the job.
	JobStatusCancelled JobStatus = "cancelled"
)

// String returns the string representation of the JobStatus.
// This implements fmt.Stringer for convenient logging and debugging.
func (s JobStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is one of the recognized job states.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted,
		JobStatusFailed, JobStatusTimeout, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// WorkspaceStatus represents the state of a workspace.
// Status values use snake_case for JSON serialization compatibility.
type WorkspaceStatus string

// Workspace status constants define the valid states a workspace can be in.
const (
	// WorkspaceStatusActive indicates the workspace is currently in use.
	WorkspaceStatusActive WorkspaceStatus = "active"

	// WorkspaceStatusCompleted indicates the job bound to the workspace
	// finished successfully; the workspace is kept for comparison and merge.
	WorkspaceStatusCompleted WorkspaceStatus = "completed"

	// WorkspaceStatusFailed indicates the bound job failed, timed out or was
	// cancelled. The workspace is kept for forensics and must be treated as
	// tainted until independently verified.
	WorkspaceStatusFailed WorkspaceStatus = "failed"

	// WorkspaceStatusRemoved indicates the workspace directory and branch
	// were cleaned up. Only explicit removal reaches this state.
	WorkspaceStatusRemoved WorkspaceStatus = "removed"
)

// String returns the string representation of the WorkspaceStatus.
func (s WorkspaceStatus) String() string {
	return string(s)
}
