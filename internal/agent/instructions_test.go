package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
)

func TestInstructionsFor(t *testing.T) {
	t.Parallel()

	t.Run("every known agent has instructions", func(t *testing.T) {
		t.Parallel()
		for _, a := range domain.AllAgents() {
			instr, err := InstructionsFor(a)
			require.NoError(t, err, "agent %s", a)
			assert.NotEmpty(t, instr, "agent %s", a)
		}
	})

	t.Run("unknown agent is an error", func(t *testing.T) {
		t.Parallel()
		_, err := InstructionsFor(domain.Agent("copilot"))
		assert.ErrorIs(t, err, qerrors.ErrUnknownAgent)
	})

	t.Run("empty agent is an error", func(t *testing.T) {
		t.Parallel()
		_, err := InstructionsFor(domain.Agent(""))
		assert.ErrorIs(t, err, qerrors.ErrUnknownAgent)
	})
}

func TestValidateInstructions(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateInstructions())
}
