package domain

import "time"

// Assignment pairs an agent with a task and carries the metadata produced by
// the upstream task-classification component. The coordinator treats the
// record as opaque beyond these fields.
type Assignment struct {
	// TaskID identifies the logical task this assignment implements.
	TaskID string `json:"task_id" yaml:"task_id"`

	// Agent is the primary agent responsible for the implementation.
	Agent Agent `json:"agent" yaml:"agent"`

	// SecondaryAgents lists supporting agents suggested by the classifier.
	// They are recorded for traceability and prompt context only; the
	// coordinator schedules one job per assignment.
	SecondaryAgents []Agent `json:"secondary_agents,omitempty" yaml:"secondary_agents,omitempty"`

	// Justification is the classifier's free-text reason for the pairing.
	Justification string `json:"justification,omitempty" yaml:"justification,omitempty"`

	// Title is a short human-readable task title, used in prompts.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Description is the task description rendered into the agent prompt.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Timeout overrides the coordinator-wide default job timeout when set.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Validate checks that the assignment carries the required fields and that
// every referenced agent is a recognized type.
func (a *Assignment) Validate() error {
	if a.TaskID == "" {
		return errEmptyField("task_id")
	}
	if a.Agent == "" {
		return errEmptyField("agent")
	}
	if !a.Agent.IsValid() {
		return errUnknownAgent(a.Agent)
	}
	for _, sec := range a.SecondaryAgents {
		if !sec.IsValid() {
			return errUnknownAgent(sec)
		}
	}
	return nil
}
