package agent

import (
	"fmt"

	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
)

// instructions maps each known agent to its execution instructions. The set
// is closed: a lookup for an agent outside this map is an error, never an
// empty or generic default.
//
//nolint:gochecknoglobals // Read-only instruction table
var instructions = map[domain.Agent]string{
	domain.AgentClaude: `1. Review the task objectives and validation criteria carefully
2. Implement the solution following best practices
3. Write comprehensive tests (minimum 85% coverage)
4. Add clear documentation and comments
5. Validate your work against the criteria before completing
6. Update any relevant documentation files`,

	domain.AgentCodex: `1. Review task requirements thoroughly
2. Implement the solution with clear, maintainable code
3. Write tests alongside implementation
4. Follow established code patterns in the repository
5. Review generated changes before accepting
6. Maintain consistency with the existing codebase`,

	domain.AgentGemini: `1. Review task requirements thoroughly
2. Implement solution with clear, maintainable code
3. Write comprehensive tests
4. Document your changes
5. Validate against acceptance criteria
6. Ensure compatibility with existing systems`,

	domain.AgentCursor: `1. Use agent mode for complex multi-file changes
2. Leverage repository-wide context for consistency
3. Follow existing code patterns and conventions
4. Write tests alongside implementation
5. Verify all changes with local testing`,
}

// InstructionsFor returns the execution instructions for an agent.
// Returns ErrUnknownAgent for identifiers outside the closed set.
func InstructionsFor(agent domain.Agent) (string, error) {
	instr, ok := instructions[agent]
	if !ok {
		return "", fmt.Errorf("no instructions for agent: %w: %q", qerrors.ErrUnknownAgent, agent)
	}
	return instr, nil
}

// ValidateInstructions verifies at startup that every recognized agent has an
// instruction template, so a missing entry fails fast instead of producing
// empty prompts at execution time.
func ValidateInstructions() error {
	for _, a := range domain.AllAgents() {
		if _, ok := instructions[a]; !ok {
			return fmt.Errorf("agent %q has no instruction template: %w", a, qerrors.ErrUnknownAgent)
		}
	}
	return nil
}
