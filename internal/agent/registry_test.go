package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
)

// stubRunner records the last request and returns a canned result.
type stubRunner struct {
	result *domain.AgentResult
	err    error
	last   *Request
}

func (s *stubRunner) Run(_ context.Context, req *Request) (*domain.AgentResult, error) {
	s.last = req
	return s.result, s.err
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("register and get", func(t *testing.T) {
		t.Parallel()
		reg := NewRegistry()
		runner := &stubRunner{}

		reg.Register(domain.AgentClaude, runner)

		got, err := reg.Get(domain.AgentClaude)
		require.NoError(t, err)
		assert.Same(t, runner, got)
	})

	t.Run("get unregistered returns ErrUnknownAgent", func(t *testing.T) {
		t.Parallel()
		reg := NewRegistry()

		_, err := reg.Get(domain.AgentGemini)
		assert.ErrorIs(t, err, qerrors.ErrUnknownAgent)
	})

	t.Run("has reflects registration", func(t *testing.T) {
		t.Parallel()
		reg := NewRegistry()

		assert.False(t, reg.Has(domain.AgentCodex))
		reg.Register(domain.AgentCodex, &stubRunner{})
		assert.True(t, reg.Has(domain.AgentCodex))
	})

	t.Run("agents lists registered types", func(t *testing.T) {
		t.Parallel()
		reg := NewRegistry()
		reg.Register(domain.AgentClaude, &stubRunner{})
		reg.Register(domain.AgentCursor, &stubRunner{})

		agents := reg.Agents()
		assert.Len(t, agents, 2)
		assert.Contains(t, agents, domain.AgentClaude)
		assert.Contains(t, agents, domain.AgentCursor)
	})

	t.Run("register replaces existing runner", func(t *testing.T) {
		t.Parallel()
		reg := NewRegistry()
		first := &stubRunner{}
		second := &stubRunner{}

		reg.Register(domain.AgentClaude, first)
		reg.Register(domain.AgentClaude, second)

		got, err := reg.Get(domain.AgentClaude)
		require.NoError(t, err)
		assert.Same(t, second, got)
	})
}

func TestMultiRunner(t *testing.T) {
	t.Parallel()

	t.Run("dispatches by agent", func(t *testing.T) {
		t.Parallel()
		reg := NewRegistry()
		claude := &stubRunner{result: &domain.AgentResult{ExitCode: 0, Output: "claude"}}
		codex := &stubRunner{result: &domain.AgentResult{ExitCode: 0, Output: "codex"}}
		reg.Register(domain.AgentClaude, claude)
		reg.Register(domain.AgentCodex, codex)

		multi := NewMultiRunner(reg)
		res, err := multi.Run(context.Background(), &Request{Agent: domain.AgentCodex, Prompt: "go"})
		require.NoError(t, err)
		assert.Equal(t, "codex", res.Output)
		assert.Nil(t, claude.last)
		require.NotNil(t, codex.last)
		assert.Equal(t, "go", codex.last.Prompt)
	})

	t.Run("empty agent rejected", func(t *testing.T) {
		t.Parallel()
		multi := NewMultiRunner(NewRegistry())

		_, err := multi.Run(context.Background(), &Request{})
		assert.ErrorIs(t, err, qerrors.ErrEmptyValue)
	})

	t.Run("unregistered agent rejected", func(t *testing.T) {
		t.Parallel()
		multi := NewMultiRunner(NewRegistry())

		_, err := multi.Run(context.Background(), &Request{Agent: domain.AgentGemini})
		assert.ErrorIs(t, err, qerrors.ErrUnknownAgent)
	})
}
