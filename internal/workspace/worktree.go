// Package workspace provides isolated workspace management for Quorum.
// This file implements Git worktree operations for isolated working directories.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mrz1836/quorum/internal/ctxutil"
	qerrors "github.com/mrz1836/quorum/internal/errors"
	"github.com/mrz1836/quorum/internal/git"
)

// WorktreeRunner defines operations for Git worktree management.
type WorktreeRunner interface {
	// Create creates a new worktree on a new branch from the base ref.
	Create(ctx context.Context, opts WorktreeCreateOptions) (string, error)

	// Remove removes a worktree. If force is true, removes even if dirty.
	Remove(ctx context.Context, path string, force bool) error

	// Prune removes stale worktree entries from git metadata.
	Prune(ctx context.Context) error

	// HasUncommittedChanges reports whether the worktree has uncommitted or
	// untracked changes.
	HasUncommittedChanges(ctx context.Context, path string) (bool, error)

	// BranchExists checks if a branch exists in the repository.
	BranchExists(ctx context.Context, name string) (bool, error)

	// DeleteBranch deletes a branch. If force is true, deletes even if not merged.
	DeleteBranch(ctx context.Context, name string, force bool) error
}

// WorktreeCreateOptions contains options for creating a worktree.
type WorktreeCreateOptions struct {
	Path    string // Absolute path for the new worktree directory
	Branch  string // Branch to create and check out
	BaseRef string // Ref to branch from (default: main)
}

// GitWorktreeRunner implements WorktreeRunner using the git CLI.
type GitWorktreeRunner struct {
	repoPath string // Path to the main repository
}

// NewGitWorktreeRunner creates a new GitWorktreeRunner rooted at the
// repository containing repoPath.
func NewGitWorktreeRunner(ctx context.Context, repoPath string) (*GitWorktreeRunner, error) {
	root, err := git.DetectRepoRoot(ctx, repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to detect git repository: %w", err)
	}
	return &GitWorktreeRunner{repoPath: root}, nil
}

// RepoPath returns the detected repository root.
func (r *GitWorktreeRunner) RepoPath() string {
	return r.repoPath
}

// Create creates a new worktree with the given options.
func (r *GitWorktreeRunner) Create(ctx context.Context, opts WorktreeCreateOptions) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	if opts.Path == "" {
		return "", fmt.Errorf("worktree path %w", qerrors.ErrEmptyValue)
	}
	if opts.Branch == "" {
		return "", fmt.Errorf("branch name %w", qerrors.ErrEmptyValue)
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o750); err != nil {
		return "", fmt.Errorf("failed to create worktree base directory: %w", err)
	}

	args := []string{"worktree", "add", opts.Path, "-b", opts.Branch}
	if opts.BaseRef != "" {
		args = append(args, opts.BaseRef)
	}

	if _, err := git.RunCommand(ctx, r.repoPath, args...); err != nil {
		// CRITICAL: Clean up on failure (atomic creation)
		_ = os.RemoveAll(opts.Path)
		log.Error().
			Err(err).
			Str("branch", opts.Branch).
			Str("base_ref", opts.BaseRef).
			Str("path", opts.Path).
			Msg("failed to create worktree")
		return "", fmt.Errorf("failed to create worktree: %w", err)
	}

	log.Info().
		Str("branch", opts.Branch).
		Str("base_ref", opts.BaseRef).
		Str("path", opts.Path).
		Msg("worktree created")

	return opts.Path, nil
}

// Remove removes a worktree.
func (r *GitWorktreeRunner) Remove(ctx context.Context, path string, force bool) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	// Refuse to remove the main repository
	if absPath == r.repoPath {
		return fmt.Errorf("'%s' is the main repository, not a worktree: %w", path, qerrors.ErrNotAWorktree)
	}

	args := []string{"worktree", "remove", absPath}
	if force {
		args = append(args, "--force")
	}

	if _, err = git.RunCommand(ctx, r.repoPath, args...); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "contains modified or untracked files") ||
			strings.Contains(errStr, "is dirty") {
			return fmt.Errorf("worktree at '%s' has uncommitted changes: %w", path, qerrors.ErrUnsafeRemoval)
		}
		if strings.Contains(errStr, "is not a working tree") ||
			strings.Contains(errStr, "is a main working tree") {
			return fmt.Errorf("'%s' is not a git worktree: %w", path, qerrors.ErrNotAWorktree)
		}
		return fmt.Errorf("failed to remove worktree: %w", err)
	}

	return nil
}

// Prune removes stale worktree entries.
func (r *GitWorktreeRunner) Prune(ctx context.Context) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if _, err := git.RunCommand(ctx, r.repoPath, "worktree", "prune"); err != nil {
		return fmt.Errorf("failed to prune worktrees: %w", err)
	}
	return nil
}

// HasUncommittedChanges reports whether the worktree at path has uncommitted
// or untracked changes.
func (r *GitWorktreeRunner) HasUncommittedChanges(ctx context.Context, path string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	output, err := git.RunCommand(ctx, path, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to check worktree status: %w", err)
	}
	return output != "", nil
}

// BranchExists checks if a branch exists in the repository.
func (r *GitWorktreeRunner) BranchExists(ctx context.Context, name string) (bool, error) {
	return git.BranchExists(ctx, r.repoPath, name)
}

// DeleteBranch deletes a branch.
func (r *GitWorktreeRunner) DeleteBranch(ctx context.Context, name string, force bool) error {
	if err := git.DeleteBranch(ctx, r.repoPath, name, force); err != nil {
		return fmt.Errorf("failed to delete branch '%s': %w", name, err)
	}
	return nil
}

// Ensure GitWorktreeRunner implements WorktreeRunner.
var _ WorktreeRunner = (*GitWorktreeRunner)(nil)
