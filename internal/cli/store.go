package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrz1836/quorum/internal/constants"
	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
)

// runFileName is where the outcome of the most recent parallel execution is
// persisted, under the project's .quorum directory.
const runFileName = "last_run.json"

// RunRecord is the persisted outcome of one parallel execution. It carries
// everything `quorum compare` needs without re-running anything.
type RunRecord struct {
	// SavedAt is when the record was written.
	SavedAt time.Time `json:"saved_at"`

	// BaseRef is the git ref the run's workspaces branched from.
	BaseRef string `json:"base_ref"`

	// Jobs are the terminal job snapshots from the run.
	Jobs []*domain.Job `json:"jobs"`
}

// runFilePath returns the run record path for a repository.
func runFilePath(repoRoot string) string {
	return filepath.Join(repoRoot, constants.QuorumHome, runFileName)
}

// saveRun persists the run record for later comparison.
func saveRun(repoRoot string, record *RunRecord) error {
	path := runFilePath(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}
	return nil
}

// loadRun reads the persisted record of the most recent run.
func loadRun(repoRoot string) (*RunRecord, error) {
	data, err := os.ReadFile(runFilePath(repoRoot)) //#nosec G304 -- path derived from repo root
	if err != nil {
		return nil, fmt.Errorf("failed to read run record (run `quorum run` first): %w", err)
	}

	var record RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode run record: %w", err)
	}
	if len(record.Jobs) == 0 {
		return nil, fmt.Errorf("%w: run record holds no jobs", qerrors.ErrEmptyValue)
	}
	return &record, nil
}
