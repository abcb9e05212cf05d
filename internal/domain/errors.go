package domain

import (
	"fmt"

	qerrors "github.com/mrz1836/quorum/internal/errors"
)

// errEmptyField wraps ErrEmptyValue with the name of the missing field.
func errEmptyField(field string) error {
	return fmt.Errorf("%s %w", field, qerrors.ErrEmptyValue)
}

// errUnknownAgent wraps ErrUnknownAgent with the offending identifier.
func errUnknownAgent(agent Agent) error {
	return fmt.Errorf("%w: %q", qerrors.ErrUnknownAgent, agent)
}
