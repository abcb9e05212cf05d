// Package coordinator schedules agent jobs across isolated workspaces with
// bounded concurrency, per-job timeouts, and cooperative cancellation.
//
// This file implements the job state machine. All jobs start pending, run at
// most once, and settle into exactly one terminal state.
//
// Import rules:
//   - CAN import: internal/agent, internal/clock, internal/constants,
//     internal/domain, internal/errors, internal/workspace, std lib
//   - MUST NOT import: internal/compare, internal/cli
package coordinator

import (
	"github.com/mrz1836/quorum/internal/constants"
)

// ValidTransitions defines all allowed job state transitions.
// Format: from_status -> []to_statuses
//
// The state machine follows this flow:
//
//	Pending → Running, Failed, Cancelled
//	Running → Completed, Failed, Timeout, Cancelled
//
// Pending → Failed covers jobs whose workspace could not be provisioned.
// Pending → Cancelled covers jobs abandoned before a worker picked them up.
//
//nolint:gochecknoglobals // Read-only lookup table
var ValidTransitions = map[constants.JobStatus][]constants.JobStatus{
	constants.JobStatusPending: {
		constants.JobStatusRunning,
		constants.JobStatusFailed,
		constants.JobStatusCancelled,
	},
	constants.JobStatusRunning: {
		constants.JobStatusCompleted,
		constants.JobStatusFailed,
		constants.JobStatusTimeout,
		constants.JobStatusCancelled,
	},
}

// IsValidTransition checks if a transition from one status to another is
// allowed. Same-state transitions and transitions out of terminal states are
// never valid.
func IsValidTransition(from, to constants.JobStatus) bool {
	if from == to {
		return false
	}
	targets, exists := ValidTransitions[from]
	if !exists {
		return false
	}
	for _, target := range targets {
		if target == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus returns true for states where no further transitions are
// allowed. Terminal states are exactly those absent from ValidTransitions.
func IsTerminalStatus(status constants.JobStatus) bool {
	_, exists := ValidTransitions[status]
	return !exists && status.IsValid()
}
