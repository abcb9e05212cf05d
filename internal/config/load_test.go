package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/quorum/internal/constants"
	qerrors "github.com/mrz1836/quorum/internal/errors"
)

// writeGlobalConfig points HOME at a temp dir holding the given YAML as the
// global config file.
func writeGlobalConfig(t *testing.T, yaml string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, constants.QuorumHome)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
}

func TestLoad(t *testing.T) {
	t.Run("defaults when no config files exist", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		cfg, err := Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, constants.DefaultMaxConcurrency, cfg.Execution.MaxConcurrency)
		assert.Equal(t, constants.DefaultJobTimeout, cfg.Execution.JobTimeout)
	})

	t.Run("global config overrides defaults", func(t *testing.T) {
		writeGlobalConfig(t, `
execution:
  max_concurrency: 3
  job_timeout: 30m
workspace:
  base_ref: develop
`)

		cfg, err := Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Execution.MaxConcurrency)
		assert.Equal(t, 30*time.Minute, cfg.Execution.JobTimeout)
		assert.Equal(t, "develop", cfg.Workspace.BaseRef)
		// Untouched sections keep defaults.
		assert.Equal(t, constants.DefaultBasePort, cfg.Workspace.BasePort)
	})

	t.Run("environment variables override files", func(t *testing.T) {
		writeGlobalConfig(t, "execution:\n  max_concurrency: 3\n")
		t.Setenv("QUORUM_EXECUTION_MAX_CONCURRENCY", "7")

		cfg, err := Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Execution.MaxConcurrency)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		writeGlobalConfig(t, "execution:\n  max_concurrency: 0\n")

		_, err := Load(context.Background())
		assert.ErrorIs(t, err, qerrors.ErrValueOutOfRange)
	})

	t.Run("malformed yaml rejected", func(t *testing.T) {
		writeGlobalConfig(t, "execution: [broken\n")

		_, err := Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("custom weights validated", func(t *testing.T) {
		writeGlobalConfig(t, `
compare:
  weights:
    coverage: 0.5
    test_pass: 0.5
    static_analysis: 0.5
`)

		_, err := Load(context.Background())
		assert.ErrorIs(t, err, qerrors.ErrInvalidWeights)
	})
}
