package agent

import (
	"fmt"
	"strings"

	"github.com/mrz1836/quorum/internal/domain"
)

// BuildPrompt renders the full task prompt for one assignment executing in a
// workspace: task overview, execution environment, the classifier's
// justification, and the agent-specific instructions.
func BuildPrompt(a *domain.Assignment, ws *domain.Workspace) (string, error) {
	instr, err := InstructionsFor(a.Agent)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# Task Assignment for %s\n\n", a.Agent)
	b.WriteString("## Task Overview\n")
	fmt.Fprintf(&b, "**Task ID:** %s\n", a.TaskID)
	if a.Title != "" {
		fmt.Fprintf(&b, "**Title:** %s\n", a.Title)
	}

	if a.Description != "" {
		b.WriteString("\n## Objective\n")
		b.WriteString(a.Description)
		b.WriteByte('\n')
	}

	b.WriteString("\n## Execution Environment\n")
	fmt.Fprintf(&b, "- Working Directory: `%s`\n", ws.Path)
	fmt.Fprintf(&b, "- Branch: `%s`\n", ws.Branch)
	fmt.Fprintf(&b, "- Dev Server Port: %d\n", ws.Port)

	if len(a.SecondaryAgents) > 0 {
		b.WriteString("\n## Supporting Agents\n")
		for _, sec := range a.SecondaryAgents {
			fmt.Fprintf(&b, "- %s\n", sec)
		}
	}

	if a.Justification != "" {
		b.WriteString("\n## Why You Were Assigned\n")
		b.WriteString(a.Justification)
		b.WriteByte('\n')
	}

	b.WriteString("\n## Instructions\n")
	b.WriteString(instr)
	b.WriteByte('\n')

	return b.String(), nil
}
