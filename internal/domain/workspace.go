package domain

import (
	"time"

	"github.com/mrz1836/quorum/internal/constants"
)

// Workspace represents an isolated, branch-backed checkout used by exactly
// one (agent, task) execution. It owns one port from the managed pool and an
// isolated environment file inside the worktree.
//
// Workspaces are owned exclusively by the workspace manager. The coordinator
// and the comparison engine hold references but never mutate them.
//
// Example JSON representation:
//
//	{
//	    "agent": "claude",
//	    "task_id": "task-1.2.1",
//	    "path": "/repos/api-worktrees/claude-task-1.2.1",
//	    "branch": "agent/claude/task-1.2.1",
//	    "port": 3000,
//	    "env_file": "/repos/api-worktrees/claude-task-1.2.1/.env",
//	    "status": "active",
//	    "created_at": "2026-08-25T10:00:00Z"
//	}
type Workspace struct {
	// Agent is the agent this workspace was created for.
	Agent Agent `json:"agent"`

	// TaskID is the logical task this workspace was created for.
	// (Agent, TaskID) is unique among non-removed workspaces.
	TaskID string `json:"task_id"`

	// Path is the absolute path to the worktree directory.
	Path string `json:"path"`

	// Branch is the dedicated branch backing the worktree.
	// Format: agent/{agent}/{task-id}.
	Branch string `json:"branch"`

	// Port is the network port allocated from the managed pool.
	Port int `json:"port"`

	// EnvFile is the path of the isolated environment file, if written.
	EnvFile string `json:"env_file,omitempty"`

	// EnvVars holds the environment applied to agent processes in this
	// workspace, including the PORT bindings.
	EnvVars map[string]string `json:"env_vars,omitempty"`

	// Status is the workspace lifecycle state.
	Status constants.WorkspaceStatus `json:"status"`

	// CreatedAt is when the workspace was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the workspace was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the registry key for the (agent, task) pair.
func (w *Workspace) Key() string {
	return WorkspaceKey(w.Agent, w.TaskID)
}

// WorkspaceKey builds the registry key for an (agent, task) pair.
func WorkspaceKey(agent Agent, taskID string) string {
	return string(agent) + "/" + taskID
}
