// Package agent provides agent execution capabilities for Quorum.
//
// This package defines the Runner interface for invoking external coding
// agents against a workspace, the registry that routes requests to the right
// runner, and the closed instruction-template set rendered into prompts.
//
// IMPORTANT: This package may import internal/constants, internal/errors,
// and internal/domain. It MUST NOT import internal/coordinator,
// internal/workspace, or internal/cli.
package agent

import (
	"context"

	"github.com/mrz1836/quorum/internal/domain"
)

// Request describes one agent invocation against a workspace.
type Request struct {
	// Agent selects which CLI tool executes the request.
	Agent domain.Agent

	// Prompt is the fully rendered task prompt.
	Prompt string

	// Dir is the workspace directory the agent runs in.
	Dir string

	// Env is the isolated environment applied to the agent process,
	// in addition to the parent environment.
	Env map[string]string
}

// Runner defines the interface for agent execution.
// Implementations handle the actual invocation of an agent CLI and return a
// structured result.
//
// Context should be used to control timeouts and cancellation.
// The implementation should check ctx.Done() for long-running operations.
type Runner interface {
	// Run executes an agent request and returns the result.
	// The context controls timeout and cancellation.
	// Returns an error wrapped with errors.ErrAgentInvocation on failure.
	Run(ctx context.Context, req *Request) (*domain.AgentResult, error)
}
