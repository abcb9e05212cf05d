// Package assign loads and validates the assignment file that drives a
// parallel run. The file is YAML, produced upstream by task classification or
// written by hand.
package assign

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
)

// file is the on-disk shape of an assignment file.
//
//	assignments:
//	  - task_id: task-1.2
//	    agent: claude
//	    secondary_agents: [gemini]
//	    title: Add retry logic
//	    description: Wrap outbound calls with bounded retries.
//	    justification: Strong test coverage track record
//	    timeout: 45m
type file struct {
	Assignments []record `yaml:"assignments"`
}

// record mirrors domain.Assignment with a string timeout, since YAML carries
// durations as "45m" rather than nanosecond integers.
type record struct {
	TaskID          string         `yaml:"task_id"`
	Agent           domain.Agent   `yaml:"agent"`
	SecondaryAgents []domain.Agent `yaml:"secondary_agents"`
	Justification   string         `yaml:"justification"`
	Title           string         `yaml:"title"`
	Description     string         `yaml:"description"`
	Timeout         string         `yaml:"timeout"`
}

// Load reads and validates an assignment file. Every record must validate
// and the batch must be non-empty.
func Load(path string) ([]*domain.Assignment, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from operator CLI input
	if err != nil {
		return nil, fmt.Errorf("failed to read assignment file: %w", err)
	}
	return Parse(data)
}

// Parse decodes assignment YAML. Unknown fields are rejected so a typo in a
// field name cannot silently drop an assignment's metadata.
func Parse(data []byte) ([]*domain.Assignment, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %s", qerrors.ErrInvalidAssignment, err.Error())
	}

	if len(f.Assignments) == 0 {
		return nil, qerrors.ErrNoAssignments
	}

	out := make([]*domain.Assignment, 0, len(f.Assignments))
	for i, r := range f.Assignments {
		a, err := r.toAssignment()
		if err != nil {
			return nil, fmt.Errorf("assignment %d: %w", i, err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("assignment %d: %w: %w", i, qerrors.ErrInvalidAssignment, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// toAssignment converts a raw record, parsing the timeout string.
func (r record) toAssignment() (*domain.Assignment, error) {
	a := &domain.Assignment{
		TaskID:          r.TaskID,
		Agent:           r.Agent,
		SecondaryAgents: r.SecondaryAgents,
		Justification:   r.Justification,
		Title:           r.Title,
		Description:     r.Description,
	}
	if r.Timeout != "" {
		d, err := time.ParseDuration(r.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: bad timeout %q", qerrors.ErrInvalidAssignment, r.Timeout)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: timeout must be positive, got %s", qerrors.ErrInvalidAssignment, d)
		}
		a.Timeout = d
	}
	return a, nil
}
