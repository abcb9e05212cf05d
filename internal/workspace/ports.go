// Package workspace provides isolated workspace management for Quorum.
// This file implements the bounded port pool shared by all workspaces.
package workspace

import (
	"fmt"
	"sync"

	qerrors "github.com/mrz1836/quorum/internal/errors"
)

// PortPool hands out network ports from a bounded range. Each workspace gets
// exactly one port; a port is reused only after an explicit release.
//
// The pool is one of the two shared mutable resources in the system (the
// other is the workspace registry), so all access is serialized: a
// double-allocated port is a correctness violation, not a performance issue.
type PortPool struct {
	mu        sync.Mutex
	base      int
	size      int
	allocated map[int]bool
}

// NewPortPool creates a pool covering [base, base+size).
func NewPortPool(base, size int) (*PortPool, error) {
	if base <= 0 || base > 65535 {
		return nil, fmt.Errorf("base port %d: %w", base, qerrors.ErrValueOutOfRange)
	}
	if size <= 0 || base+size-1 > 65535 {
		return nil, fmt.Errorf("pool size %d from base %d: %w", size, base, qerrors.ErrValueOutOfRange)
	}
	return &PortPool{
		base:      base,
		size:      size,
		allocated: make(map[int]bool, size),
	}, nil
}

// Allocate returns the lowest free port in the range.
// Returns ErrPortExhausted when every port is allocated.
func (p *PortPool) Allocate() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for port := p.base; port < p.base+p.size; port++ {
		if !p.allocated[port] {
			p.allocated[port] = true
			return port, nil
		}
	}
	return 0, fmt.Errorf("no free port in range %d-%d: %w", p.base, p.base+p.size-1, qerrors.ErrPortExhausted)
}

// Release returns a port to the pool.
//
// Releasing a port that is not currently allocated is a programming error in
// the caller and panics: silently continuing would let the registry hand the
// same port to two workspaces.
func (p *PortPool) Release(port int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.allocated[port] {
		panic(fmt.Sprintf("workspace: release of port %d: %v", port, qerrors.ErrPortNotAllocated))
	}
	delete(p.allocated, port)
}

// InUse returns the number of currently allocated ports.
func (p *PortPool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.allocated)
}

// Capacity returns the total number of ports managed by the pool.
func (p *PortPool) Capacity() int {
	return p.size
}
