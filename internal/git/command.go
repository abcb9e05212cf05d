// Package git provides Git operations for Quorum.
// This file provides shared git command execution utilities.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	qerrors "github.com/mrz1836/quorum/internal/errors"
)

// RunCommand executes a git command in the specified directory and returns its output.
// All errors are wrapped with ErrGitOperation and include stderr for debugging.
// This function is exported for use by other packages (e.g., workspace, compare).
func RunCommand(ctx context.Context, workDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //#nosec G204 -- args are constructed internally, not user input
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check for context cancellation
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// Include stderr in error for debugging, wrap with ErrGitOperation
		if stderr.Len() > 0 {
			return "", fmt.Errorf("git %s failed: %s: %w", args[0], strings.TrimSpace(stderr.String()), qerrors.ErrGitOperation)
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], qerrors.ErrGitOperation)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// DetectRepoRoot finds the root of the git repository containing path.
func DetectRepoRoot(ctx context.Context, path string) (string, error) {
	output, err := RunCommand(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %w", qerrors.ErrNotGitRepo, err)
	}
	return output, nil
}
