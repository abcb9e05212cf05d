// Package domain provides shared domain types for the Quorum orchestration system.
package domain

// Agent represents an AI CLI agent type (e.g., "claude", "codex").
// This determines which CLI tool is used to execute a job and which
// instruction template is rendered into its prompt.
type Agent string

// Agent constants define the supported AI CLI agents.
// The set is closed: an identifier outside this list fails validation
// instead of silently falling back to a default instruction set.
const (
	// AgentClaude uses the Claude Code CLI from Anthropic.
	AgentClaude Agent = "claude"

	// AgentCodex uses the Codex CLI from OpenAI.
	AgentCodex Agent = "codex"

	// AgentGemini uses the Gemini CLI from Google.
	AgentGemini Agent = "gemini"

	// AgentCursor uses the Cursor agent CLI.
	AgentCursor Agent = "cursor"
)

// String returns the string representation of the Agent.
// This implements fmt.Stringer for convenient logging and debugging.
func (a Agent) String() string {
	return string(a)
}

// IsValid checks if the agent is a recognized type.
func (a Agent) IsValid() bool {
	switch a {
	case AgentClaude, AgentCodex, AgentGemini, AgentCursor:
		return true
	}
	return false
}

// AllAgents returns every recognized agent type.
func AllAgents() []Agent {
	return []Agent{AgentClaude, AgentCodex, AgentGemini, AgentCursor}
}
