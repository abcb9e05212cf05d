// Package git provides Git operations for Quorum.
// This file provides branch naming utilities.
package git

import (
	"context"
	"regexp"
	"strings"

	"github.com/mrz1836/quorum/internal/ctxutil"
)

// branchNameRegex is used to sanitize branch name segments.
// It matches any character that is NOT a lowercase letter, digit, hyphen, or dot.
var branchNameRegex = regexp.MustCompile(`[^a-z0-9.-]+`)

// SanitizeBranchSegment sanitizes a branch name segment by:
// - Converting to lowercase
// - Replacing disallowed characters with hyphens
// - Trimming leading/trailing hyphens
// - Collapsing consecutive hyphens
//
// Example: "Task 1.2!" -> "task-1.2"
func SanitizeBranchSegment(name string) string {
	name = strings.ToLower(name)
	name = branchNameRegex.ReplaceAllString(name, "-")
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}
	return strings.Trim(name, "-")
}

// AgentBranchName creates a branch name for an (agent, task) pair.
// The format is "agent/{agent}/{task-id}", so two distinct pairs never
// collide and a human can trace a branch back to its originating job.
//
// Example: AgentBranchName("claude", "Task 1.2") -> "agent/claude/task-1.2"
func AgentBranchName(agent, taskID string) string {
	return "agent/" + SanitizeBranchSegment(agent) + "/" + SanitizeBranchSegment(taskID)
}

// BranchExists checks if a local branch exists in the repository at repoPath.
func BranchExists(ctx context.Context, repoPath, name string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	_, err := RunCommand(ctx, repoPath, "show-ref", "--verify", "refs/heads/"+name)
	if err != nil {
		// show-ref exits 1 with no stderr when the ref does not exist; real
		// failures (not a repository, bad usage) carry a fatal message.
		errStr := err.Error()
		if strings.Contains(errStr, "fatal:") || strings.Contains(errStr, "usage:") {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// DeleteBranch deletes a branch. If force is true, deletes even if not merged.
func DeleteBranch(ctx context.Context, repoPath, name string, force bool) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := RunCommand(ctx, repoPath, "branch", flag, name)
	return err
}
