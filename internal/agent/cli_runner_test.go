package agent

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestNewCLIRunner(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		r, err := NewCLIRunner(domain.AgentClaude, "claude", []string{"--print"}, zerolog.Nop())
		require.NoError(t, err)
		assert.NotNil(t, r)
	})

	t.Run("empty command", func(t *testing.T) {
		t.Parallel()
		_, err := NewCLIRunner(domain.AgentClaude, "", nil, zerolog.Nop())
		assert.ErrorIs(t, err, qerrors.ErrCommandNotConfigured)
	})

	t.Run("unknown agent", func(t *testing.T) {
		t.Parallel()
		_, err := NewCLIRunner(domain.Agent("copilot"), "copilot", nil, zerolog.Nop())
		assert.ErrorIs(t, err, qerrors.ErrUnknownAgent)
	})
}

func TestCLIRunnerRun(t *testing.T) {
	t.Parallel()

	t.Run("captures stdout and zero exit", func(t *testing.T) {
		t.Parallel()
		skipOnWindows(t)

		r, err := NewCLIRunner(domain.AgentClaude, "sh", []string{"-c", "cat"}, zerolog.Nop())
		require.NoError(t, err)

		res, err := r.Run(context.Background(), &Request{
			Agent:  domain.AgentClaude,
			Prompt: "hello agent",
			Dir:    t.TempDir(),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.Equal(t, "hello agent", res.Output)
	})

	t.Run("non-zero exit is a result, not an error", func(t *testing.T) {
		t.Parallel()
		skipOnWindows(t)

		r, err := NewCLIRunner(domain.AgentClaude, "sh", []string{"-c", "echo boom >&2; exit 3"}, zerolog.Nop())
		require.NoError(t, err)

		res, err := r.Run(context.Background(), &Request{Agent: domain.AgentClaude, Dir: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, 3, res.ExitCode)
		assert.Contains(t, res.Output, "boom")
	})

	t.Run("workspace env reaches the process", func(t *testing.T) {
		t.Parallel()
		skipOnWindows(t)

		r, err := NewCLIRunner(domain.AgentClaude, "sh", []string{"-c", "printf %s \"$PORT\""}, zerolog.Nop())
		require.NoError(t, err)

		res, err := r.Run(context.Background(), &Request{
			Agent: domain.AgentClaude,
			Dir:   t.TempDir(),
			Env:   map[string]string{"PORT": "3007"},
		})
		require.NoError(t, err)
		assert.Equal(t, "3007", res.Output)
	})

	t.Run("runs in the workspace directory", func(t *testing.T) {
		t.Parallel()
		skipOnWindows(t)

		dir := t.TempDir()
		r, err := NewCLIRunner(domain.AgentClaude, "pwd", nil, zerolog.Nop())
		require.NoError(t, err)

		res, err := r.Run(context.Background(), &Request{Agent: domain.AgentClaude, Dir: dir})
		require.NoError(t, err)
		assert.Contains(t, res.Output, dir)
	})

	t.Run("missing binary wraps ErrAgentInvocation", func(t *testing.T) {
		t.Parallel()

		r, err := NewCLIRunner(domain.AgentClaude, "quorum-no-such-binary", nil, zerolog.Nop())
		require.NoError(t, err)

		_, err = r.Run(context.Background(), &Request{Agent: domain.AgentClaude, Dir: t.TempDir()})
		assert.ErrorIs(t, err, qerrors.ErrAgentInvocation)
	})

	t.Run("agent mismatch rejected", func(t *testing.T) {
		t.Parallel()

		r, err := NewCLIRunner(domain.AgentClaude, "claude", nil, zerolog.Nop())
		require.NoError(t, err)

		_, err = r.Run(context.Background(), &Request{Agent: domain.AgentCodex})
		assert.ErrorIs(t, err, qerrors.ErrAgentInvocation)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		skipOnWindows(t)

		r, err := NewCLIRunner(domain.AgentClaude, "sleep", []string{"30"}, zerolog.Nop())
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err = r.Run(ctx, &Request{Agent: domain.AgentClaude, Dir: t.TempDir()})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestMergeEnv(t *testing.T) {
	t.Parallel()

	base := []string{"HOME=/home/u"}

	t.Run("nil extra returns base", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, base, mergeEnv(base, nil))
	})

	t.Run("extra keys appended sorted", func(t *testing.T) {
		t.Parallel()
		got := mergeEnv(base, map[string]string{"PORT": "3000", "DEV_SERVER_PORT": "3000"})
		assert.Equal(t, []string{"HOME=/home/u", "DEV_SERVER_PORT=3000", "PORT=3000"}, got)
	})
}
