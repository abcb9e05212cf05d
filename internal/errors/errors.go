// Package errors provides centralized error handling for Quorum.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrDuplicateWorkspace indicates that an active workspace already exists
	// for the requested (agent, task) pair.
	ErrDuplicateWorkspace = errors.New("workspace already exists for agent and task")

	// ErrWorkspaceNotFound indicates that no workspace is registered for the
	// requested (agent, task) pair.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrBranchConflict indicates that the derived branch name already exists
	// in the repository and is not owned by a removed workspace for the same pair.
	ErrBranchConflict = errors.New("branch already exists")

	// ErrUnsafeRemoval indicates that a workspace has uncommitted changes and
	// removal was not forced.
	ErrUnsafeRemoval = errors.New("workspace has uncommitted changes")

	// ErrPortExhausted indicates that the port pool has no free ports left.
	ErrPortExhausted = errors.New("port pool exhausted")

	// ErrPortNotAllocated indicates a release of a port that is not currently
	// allocated. This is an invariant violation in the caller.
	ErrPortNotAllocated = errors.New("port not allocated")

	// ErrNoViableImplementation indicates that a comparison was requested but
	// no job reached the completed state.
	ErrNoViableImplementation = errors.New("no viable implementation to compare")

	// ErrTaskMismatch indicates that jobs handed to the comparison engine do
	// not all belong to the same logical task.
	ErrTaskMismatch = errors.New("jobs are not for the same task")

	// ErrTerminalJob indicates an attempted mutation of a job that already
	// reached a terminal state. This is an invariant violation in the caller.
	ErrTerminalJob = errors.New("job is in a terminal state")

	// ErrInvalidTransition indicates a job status transition that the state
	// machine does not permit.
	ErrInvalidTransition = errors.New("invalid job status transition")

	// ErrAgentInvocation indicates that the agent CLI failed to execute or
	// returned a non-zero exit code.
	ErrAgentInvocation = errors.New("agent invocation failed")

	// ErrUnknownAgent indicates that an agent identifier has no registered
	// runner or instruction template.
	ErrUnknownAgent = errors.New("unknown agent")

	// ErrGitOperation indicates that a git command (branch, worktree, diff,
	// etc.) failed during execution.
	ErrGitOperation = errors.New("git operation failed")

	// ErrNotGitRepo indicates that the given path is not inside a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrNotAWorktree indicates a worktree operation was attempted on a path
	// that is not a linked worktree (for example the main repository).
	ErrNotAWorktree = errors.New("not a git worktree")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrValueOutOfRange indicates that a value is outside the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrInvalidWeights indicates that the configured metric weights do not
	// sum to 1.0.
	ErrInvalidWeights = errors.New("metric weights must sum to 1.0")

	// ErrNoAssignments indicates that an assignment file contained no records.
	ErrNoAssignments = errors.New("no assignments provided")

	// ErrInvalidAssignment indicates that an assignment record is missing a
	// required field.
	ErrInvalidAssignment = errors.New("invalid assignment")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrCommandNotConfigured indicates that no CLI command is configured for
	// an agent.
	ErrCommandNotConfigured = errors.New("command not configured")

	// ErrRunInProgress indicates that a parallel execution is already running
	// on this coordinator.
	ErrRunInProgress = errors.New("execution already in progress")
)
