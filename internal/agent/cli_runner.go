package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/quorum/internal/ctxutil"
	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
)

// killWaitDelay bounds how long Run waits for I/O pipes to close after the
// context cancels the process. Agent CLIs spawn subprocesses that can inherit
// the stdout pipe and keep it open past the parent's death.
const killWaitDelay = 10 * time.Second

// CLIRunner executes an agent by shelling out to its command-line tool in the
// workspace directory. The prompt is passed on stdin so it never hits the
// process table or shell history.
type CLIRunner struct {
	agent   domain.Agent
	command string
	args    []string
	logger  zerolog.Logger
}

// NewCLIRunner creates a runner that invokes command with args for the given
// agent. Returns ErrCommandNotConfigured when command is empty.
func NewCLIRunner(agent domain.Agent, command string, args []string, logger zerolog.Logger) (*CLIRunner, error) {
	if !agent.IsValid() {
		return nil, fmt.Errorf("%w: %q", qerrors.ErrUnknownAgent, agent)
	}
	if command == "" {
		return nil, fmt.Errorf("%w: agent %s", qerrors.ErrCommandNotConfigured, agent)
	}
	return &CLIRunner{
		agent:   agent,
		command: command,
		args:    args,
		logger:  logger,
	}, nil
}

// Run invokes the agent CLI in req.Dir with the workspace environment merged
// over the parent environment. A non-zero exit is returned as a result, not
// an error; errors are reserved for failures to invoke or observe the
// process at all.
func (r *CLIRunner) Run(ctx context.Context, req *Request) (*domain.AgentResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if req.Agent != "" && req.Agent != r.agent {
		return nil, fmt.Errorf("%w: runner for %s received request for %s",
			qerrors.ErrAgentInvocation, r.agent, req.Agent)
	}

	cmd := exec.CommandContext(ctx, r.command, r.args...) //nolint:gosec // Command comes from operator config
	cmd.WaitDelay = killWaitDelay
	cmd.Dir = req.Dir
	cmd.Env = mergeEnv(os.Environ(), req.Env)
	cmd.Stdin = bytes.NewReader([]byte(req.Prompt))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug().
		Str("agent", string(r.agent)).
		Str("command", r.command).
		Str("dir", req.Dir).
		Msg("invoking agent CLI")

	err := cmd.Run()
	if err != nil {
		// Cancellation wins over whatever the killed process reported.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &domain.AgentResult{
				Output:   stdout.String() + stderr.String(),
				ExitCode: exitErr.ExitCode(),
			}, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", qerrors.ErrAgentInvocation, r.command, err)
	}

	return &domain.AgentResult{
		Output:   stdout.String(),
		ExitCode: 0,
	}, nil
}

// mergeEnv overlays extra onto base in KEY=VALUE form, with extra keys sorted
// for deterministic process environments.
func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	merged := make([]string, 0, len(base)+len(extra))
	merged = append(merged, base...)
	for _, k := range keys {
		merged = append(merged, k+"="+extra[k])
	}
	return merged
}

// Compile-time check that CLIRunner implements Runner.
var _ Runner = (*CLIRunner)(nil)
