// Package workspace provides isolated workspace management for Quorum.
// This file implements the Manager which orchestrates workspace lifecycle operations.
package workspace

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mrz1836/quorum/internal/clock"
	"github.com/mrz1836/quorum/internal/constants"
	"github.com/mrz1836/quorum/internal/ctxutil"
	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
	"github.com/mrz1836/quorum/internal/git"
)

// Manager orchestrates workspace lifecycle operations.
// It owns the workspace registry and the port pool; both are accessed under a
// single lock since double-allocation of a port or a branch name is a
// correctness violation.
type Manager interface {
	// Create creates an isolated workspace for the (agent, task) pair:
	// a new branch from baseRef, a worktree checkout, one port from the
	// pool, and an isolated environment file.
	// Returns ErrDuplicateWorkspace if an active workspace already exists
	// for the pair, and ErrBranchConflict if the derived branch name exists
	// and is not left over from a removed workspace of the same pair.
	Create(ctx context.Context, agent domain.Agent, taskID, baseRef string) (*domain.Workspace, error)

	// Get retrieves the workspace for an (agent, task) pair.
	// Returns ErrWorkspaceNotFound if not found.
	Get(ctx context.Context, agent domain.Agent, taskID string) (*domain.Workspace, error)

	// List returns all manager-known workspaces, removed ones included.
	// It never discovers workspaces it did not create.
	List(ctx context.Context) ([]*domain.Workspace, error)

	// Remove deletes the workspace directory and branch and releases the
	// port. Idempotent. Returns ErrUnsafeRemoval if the worktree has
	// uncommitted changes and force is false.
	Remove(ctx context.Context, agent domain.Agent, taskID string, force bool) error

	// UpdateStatus updates the lifecycle status of a workspace.
	UpdateStatus(ctx context.Context, agent domain.Agent, taskID string, status constants.WorkspaceStatus) error
}

// Options configures a DefaultManager.
type Options struct {
	// RepoPath is the repository workspaces are created from.
	RepoPath string

	// BaseDir is the directory worktrees are created under.
	// Defaults to "../<repo>-worktrees" next to the repository.
	BaseDir string

	// BasePort and PortPoolSize bound the managed port range.
	BasePort     int
	PortPoolSize int

	// ExtraEnv is merged into every workspace environment file.
	ExtraEnv map[string]string

	// Clock provides timestamps; defaults to the real clock.
	Clock clock.Clock
}

// DefaultManager implements Manager using a WorktreeRunner and a PortPool.
type DefaultManager struct {
	mu       sync.Mutex
	registry map[string]*domain.Workspace

	worktrees WorktreeRunner
	ports     *PortPool
	baseDir   string
	extraEnv  map[string]string
	clk       clock.Clock
}

// NewManager creates a new DefaultManager.
func NewManager(worktrees WorktreeRunner, opts Options) (*DefaultManager, error) {
	if worktrees == nil {
		return nil, fmt.Errorf("worktree runner %w", qerrors.ErrEmptyValue)
	}

	basePort := opts.BasePort
	if basePort == 0 {
		basePort = constants.DefaultBasePort
	}
	poolSize := opts.PortPoolSize
	if poolSize == 0 {
		poolSize = constants.DefaultPortPoolSize
	}
	ports, err := NewPortPool(basePort, poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create port pool: %w", err)
	}

	baseDir := opts.BaseDir
	if baseDir == "" && opts.RepoPath != "" {
		repoDir := filepath.Dir(opts.RepoPath)
		baseDir = filepath.Join(repoDir, filepath.Base(opts.RepoPath)+"-worktrees")
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	return &DefaultManager{
		registry:  make(map[string]*domain.Workspace),
		worktrees: worktrees,
		ports:     ports,
		baseDir:   baseDir,
		extraEnv:  opts.ExtraEnv,
		clk:       clk,
	}, nil
}

// Create creates an isolated workspace for the (agent, task) pair.
func (m *DefaultManager) Create(ctx context.Context, agent domain.Agent, taskID, baseRef string) (*domain.Workspace, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if !agent.IsValid() {
		return nil, fmt.Errorf("%w: %q", qerrors.ErrUnknownAgent, agent)
	}
	if taskID == "" {
		return nil, fmt.Errorf("failed to create workspace: task id %w", qerrors.ErrEmptyValue)
	}
	if baseRef == "" {
		baseRef = constants.DefaultBaseRef
	}

	key := domain.WorkspaceKey(agent, taskID)
	branch := git.AgentBranchName(string(agent), taskID)

	// Registry and port pool mutations are serialized under one lock so two
	// concurrent creates can never race a pair, a port, or a branch name.
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.registry[key]; ok && existing.Status != constants.WorkspaceStatusRemoved {
		return nil, fmt.Errorf("failed to create workspace '%s': %w", key, qerrors.ErrDuplicateWorkspace)
	}

	// A leftover branch is only acceptable when it belongs to a previously
	// removed workspace of the same pair; anything else is a conflict.
	branchExists, err := m.worktrees.BranchExists(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("failed to check branch '%s': %w", branch, err)
	}
	if branchExists {
		if !m.ownsRemovedBranchLocked(key, branch) {
			return nil, fmt.Errorf("branch '%s': %w", branch, qerrors.ErrBranchConflict)
		}
		// Stale branch from a removed workspace of this pair: clear it so the
		// new worktree can recreate it from baseRef.
		if err = m.worktrees.DeleteBranch(ctx, branch, true); err != nil {
			return nil, fmt.Errorf("failed to clear stale branch '%s': %w", branch, err)
		}
	}

	port, err := m.ports.Allocate()
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace '%s': %w", key, err)
	}

	wtPath := filepath.Join(m.baseDir, fmt.Sprintf("%s-%s", agent, taskID))
	path, err := m.worktrees.Create(ctx, WorktreeCreateOptions{
		Path:    wtPath,
		Branch:  branch,
		BaseRef: baseRef,
	})
	if err != nil {
		m.ports.Release(port)
		return nil, fmt.Errorf("failed to create worktree for '%s': %w", key, err)
	}

	env := buildEnv(port, m.extraEnv)
	envFile, err := writeEnvFile(path, env)
	if err != nil {
		// CRITICAL: Rollback worktree and port on env failure
		_ = m.worktrees.Remove(ctx, path, true)
		m.ports.Release(port)
		return nil, fmt.Errorf("failed to configure workspace '%s': %w", key, err)
	}

	now := m.clk.Now()
	ws := &domain.Workspace{
		Agent:     agent,
		TaskID:    taskID,
		Path:      path,
		Branch:    branch,
		Port:      port,
		EnvFile:   envFile,
		EnvVars:   env,
		Status:    constants.WorkspaceStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.registry[key] = ws

	log.Info().
		Str("agent", string(agent)).
		Str("task_id", taskID).
		Str("branch", branch).
		Str("path", path).
		Int("port", port).
		Msg("workspace created")

	snapshot := *ws
	return &snapshot, nil
}

// Get retrieves the workspace for an (agent, task) pair.
func (m *DefaultManager) Get(ctx context.Context, agent domain.Agent, taskID string) (*domain.Workspace, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ws, ok := m.registry[domain.WorkspaceKey(agent, taskID)]
	if !ok {
		return nil, fmt.Errorf("workspace '%s/%s': %w", agent, taskID, qerrors.ErrWorkspaceNotFound)
	}
	snapshot := *ws
	return &snapshot, nil
}

// List returns all manager-known workspaces.
func (m *DefaultManager) List(ctx context.Context) ([]*domain.Workspace, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.Workspace, 0, len(m.registry))
	for _, ws := range m.registry {
		snapshot := *ws
		result = append(result, &snapshot)
	}
	return result, nil
}

// Remove deletes the workspace directory and branch and releases the port.
// Never called implicitly: failed workspaces are kept for forensics until a
// caller decides otherwise.
func (m *DefaultManager) Remove(ctx context.Context, agent domain.Agent, taskID string, force bool) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	key := domain.WorkspaceKey(agent, taskID)

	m.mu.Lock()
	defer m.mu.Unlock()

	ws, ok := m.registry[key]
	if !ok || ws.Status == constants.WorkspaceStatusRemoved {
		return nil // Idempotent
	}

	if !force {
		dirty, err := m.worktrees.HasUncommittedChanges(ctx, ws.Path)
		if err != nil {
			return fmt.Errorf("failed to check workspace '%s' for changes: %w", key, err)
		}
		if dirty {
			return fmt.Errorf("workspace '%s': %w", key, qerrors.ErrUnsafeRemoval)
		}
	}

	var warnings []error
	if err := m.worktrees.Remove(ctx, ws.Path, true); err != nil {
		warnings = append(warnings, fmt.Errorf("warning: failed to remove worktree: %w", err))
	}
	// Prune before deleting the branch so git doesn't think a stale worktree
	// is still using it.
	if err := m.worktrees.Prune(ctx); err != nil {
		warnings = append(warnings, fmt.Errorf("warning: failed to prune worktrees: %w", err))
	}
	if err := m.worktrees.DeleteBranch(ctx, ws.Branch, true); err != nil {
		warnings = append(warnings, fmt.Errorf("warning: failed to delete branch: %w", err))
	}

	for _, warn := range warnings {
		log.Warn().Err(warn).Str("workspace", key).Msg("remove warning")
	}

	m.ports.Release(ws.Port)
	ws.Status = constants.WorkspaceStatusRemoved
	ws.UpdatedAt = m.clk.Now()

	log.Info().
		Str("workspace", key).
		Str("branch", ws.Branch).
		Msg("workspace removed")

	return nil
}

// UpdateStatus updates the lifecycle status of a workspace.
func (m *DefaultManager) UpdateStatus(ctx context.Context, agent domain.Agent, taskID string, status constants.WorkspaceStatus) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ws, ok := m.registry[domain.WorkspaceKey(agent, taskID)]
	if !ok {
		return fmt.Errorf("workspace '%s/%s': %w", agent, taskID, qerrors.ErrWorkspaceNotFound)
	}
	ws.Status = status
	ws.UpdatedAt = m.clk.Now()
	return nil
}

// ownsRemovedBranchLocked reports whether the branch belongs to a previously
// removed workspace for the same (agent, task) pair. Caller must hold m.mu.
func (m *DefaultManager) ownsRemovedBranchLocked(key, branch string) bool {
	ws, ok := m.registry[key]
	return ok && ws.Status == constants.WorkspaceStatusRemoved && ws.Branch == branch
}

// Ensure DefaultManager implements Manager.
var _ Manager = (*DefaultManager)(nil)
