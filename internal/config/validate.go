package config

import (
	"math"

	"github.com/mrz1836/quorum/internal/errors"
)

// maxPort is the highest valid TCP port.
const maxPort = 65535

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateExecution(&cfg.Execution); err != nil {
		return err
	}
	if err := validateWorkspace(&cfg.Workspace); err != nil {
		return err
	}
	if err := validateCompare(&cfg.Compare); err != nil {
		return err
	}
	return validateAgents(cfg.Agents)
}

func validateExecution(cfg *ExecutionConfig) error {
	if cfg.MaxConcurrency < 1 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"execution.max_concurrency must be at least 1, got %d", cfg.MaxConcurrency)
	}
	if cfg.JobTimeout <= 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"execution.job_timeout must be positive, got %s", cfg.JobTimeout)
	}
	if cfg.OverallDeadline < cfg.JobTimeout {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"execution.overall_deadline (%s) must not be shorter than job_timeout (%s)",
			cfg.OverallDeadline, cfg.JobTimeout)
	}
	return nil
}

func validateWorkspace(cfg *WorkspaceConfig) error {
	if cfg.BaseRef == "" {
		return errors.Wrap(errors.ErrEmptyValue, "workspace.base_ref")
	}
	if cfg.BasePort < 1 || cfg.BasePort > maxPort {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"workspace.base_port must be in [1,%d], got %d", maxPort, cfg.BasePort)
	}
	if cfg.PortPoolSize < 1 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"workspace.port_pool_size must be at least 1, got %d", cfg.PortPoolSize)
	}
	if cfg.BasePort+cfg.PortPoolSize-1 > maxPort {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"workspace port range [%d,%d] exceeds %d",
			cfg.BasePort, cfg.BasePort+cfg.PortPoolSize-1, maxPort)
	}
	return nil
}

func validateCompare(cfg *CompareConfig) error {
	if cfg.MinQualityScore < 0 || cfg.MinQualityScore > 100 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"compare.min_quality_score must be in [0,100], got %.2f", cfg.MinQualityScore)
	}
	if cfg.DecisivenessMargin < 0 || cfg.DecisivenessMargin > 100 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"compare.decisiveness_margin must be in [0,100], got %.2f", cfg.DecisivenessMargin)
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"compare.min_confidence must be in [0,1], got %.2f", cfg.MinConfidence)
	}
	if math.Abs(cfg.Weights.Sum()-1.0) > 1e-9 {
		return errors.Wrapf(errors.ErrInvalidWeights,
			"compare.weights sum to %.4f", cfg.Weights.Sum())
	}
	return nil
}

func validateAgents(agents map[string]AgentConfig) error {
	for name, agent := range agents {
		if agent.Command == "" {
			return errors.Wrapf(errors.ErrCommandNotConfigured, "agents.%s.command", name)
		}
	}
	return nil
}
