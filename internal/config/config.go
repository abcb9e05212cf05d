// Package config provides configuration management for Quorum with layered
// precedence.
//
// Configuration sources are loaded in the following order (highest precedence
// first):
//  1. Environment variables (QUORUM_* prefix)
//  2. Project config (.quorum/config.yaml)
//  3. Global config (~/.quorum/config.yaml)
//  4. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for Quorum.
type Config struct {
	// Agents maps agent names to their CLI invocation settings.
	Agents map[string]AgentConfig `yaml:"agents" mapstructure:"agents"`

	// Execution contains settings for parallel job scheduling.
	Execution ExecutionConfig `yaml:"execution" mapstructure:"execution"`

	// Workspace contains settings for worktree and port management.
	Workspace WorkspaceConfig `yaml:"workspace" mapstructure:"workspace"`

	// Compare contains settings for quality scoring and merge recommendation.
	Compare CompareConfig `yaml:"compare" mapstructure:"compare"`

	// Logging contains settings for the rotating log file.
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// AgentConfig describes how to invoke one agent's CLI.
type AgentConfig struct {
	// Command is the executable name or path.
	Command string `yaml:"command" mapstructure:"command"`

	// Args are fixed arguments passed before the prompt arrives on stdin.
	Args []string `yaml:"args,omitempty" mapstructure:"args"`
}

// ExecutionConfig contains scheduling settings for parallel runs.
type ExecutionConfig struct {
	// MaxConcurrency bounds how many jobs run at once.
	// Default: 5
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency"`

	// JobTimeout is the per-job timeout applied when an assignment does not
	// carry its own.
	// Default: 1 hour
	JobTimeout time.Duration `yaml:"job_timeout" mapstructure:"job_timeout"`

	// OverallDeadline bounds one whole parallel run.
	// Default: 4 hours
	OverallDeadline time.Duration `yaml:"overall_deadline" mapstructure:"overall_deadline"`
}

// WorkspaceConfig contains settings for workspace isolation.
type WorkspaceConfig struct {
	// BaseDir is where workspace worktrees are created.
	// Empty means <repo>/.quorum/workspaces.
	BaseDir string `yaml:"base_dir" mapstructure:"base_dir"`

	// BaseRef is the git ref workspace branches fork from.
	// Default: "main"
	BaseRef string `yaml:"base_ref" mapstructure:"base_ref"`

	// BasePort is the first port handed to workspaces.
	// Default: 3000
	BasePort int `yaml:"base_port" mapstructure:"base_port"`

	// PortPoolSize is how many consecutive ports the pool manages.
	// Default: 100
	PortPoolSize int `yaml:"port_pool_size" mapstructure:"port_pool_size"`
}

// CompareConfig contains quality scoring and recommendation settings.
type CompareConfig struct {
	// MinQualityScore is the composite a winner must reach before any merge
	// is recommended.
	// Default: 70
	MinQualityScore float64 `yaml:"min_quality_score" mapstructure:"min_quality_score"`

	// DecisivenessMargin is the lead over second place required for an
	// auto-merge recommendation.
	// Default: 15
	DecisivenessMargin float64 `yaml:"decisiveness_margin" mapstructure:"decisiveness_margin"`

	// MinConfidence is the confidence floor for an auto-merge recommendation.
	// Default: 0.5
	MinConfidence float64 `yaml:"min_confidence" mapstructure:"min_confidence"`

	// Weights is the per-metric weighting of the composite score.
	// Weights must sum to 1.0.
	Weights WeightsConfig `yaml:"weights" mapstructure:"weights"`
}

// WeightsConfig mirrors the comparison engine's metric weighting.
type WeightsConfig struct {
	Coverage   float64 `yaml:"coverage" mapstructure:"coverage"`
	TestPass   float64 `yaml:"test_pass" mapstructure:"test_pass"`
	Static     float64 `yaml:"static_analysis" mapstructure:"static_analysis"`
	Complexity float64 `yaml:"complexity" mapstructure:"complexity"`
	Critical   float64 `yaml:"critical_issues" mapstructure:"critical_issues"`
}

// Sum returns the total of all weights.
func (w WeightsConfig) Sum() float64 {
	return w.Coverage + w.TestPass + w.Static + w.Complexity + w.Critical
}

// LoggingConfig contains settings for the rotating log file.
type LoggingConfig struct {
	// Level is the minimum level written ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level" mapstructure:"level"`

	// File is the log file path. Empty means ~/.quorum/logs/quorum.log.
	File string `yaml:"file" mapstructure:"file"`

	// MaxSizeMB is the size a log file may reach before rotation.
	// Default: 10
	MaxSizeMB int `yaml:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxBackups is how many rotated files to keep.
	// Default: 3
	MaxBackups int `yaml:"max_backups" mapstructure:"max_backups"`

	// MaxAgeDays is how long rotated files are kept.
	// Default: 28
	MaxAgeDays int `yaml:"max_age_days" mapstructure:"max_age_days"`
}
