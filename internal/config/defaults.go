package config

import (
	"github.com/spf13/viper"

	"github.com/mrz1836/quorum/internal/constants"
)

// DefaultConfig returns a new Config with built-in default values. These form
// the base layer that config files and environment variables override.
func DefaultConfig() *Config {
	return &Config{
		Agents: defaultAgents(),
		Execution: ExecutionConfig{
			MaxConcurrency:  constants.DefaultMaxConcurrency,
			JobTimeout:      constants.DefaultJobTimeout,
			OverallDeadline: constants.DefaultOverallDeadline,
		},
		Workspace: WorkspaceConfig{
			BaseRef:      constants.DefaultBaseRef,
			BasePort:     constants.DefaultBasePort,
			PortPoolSize: constants.DefaultPortPoolSize,
		},
		Compare: CompareConfig{
			MinQualityScore:    constants.DefaultMinQualityScore,
			DecisivenessMargin: constants.DefaultDecisivenessMargin,
			MinConfidence:      constants.DefaultMinConfidence,
			Weights:            defaultWeights(),
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// defaultAgents returns the CLI invocation for each supported agent.
// Prompts are delivered on stdin, so every command must read from it.
func defaultAgents() map[string]AgentConfig {
	return map[string]AgentConfig{
		"claude": {Command: "claude", Args: []string{"--print"}},
		"codex":  {Command: "codex", Args: []string{"exec"}},
		"gemini": {Command: "gemini"},
		"cursor": {Command: "cursor-agent", Args: []string{"--print"}},
	}
}

// defaultWeights mirrors compare.DefaultWeights. Coverage and test results
// dominate, structural metrics refine.
func defaultWeights() WeightsConfig {
	return WeightsConfig{
		Coverage:   0.30,
		TestPass:   0.25,
		Static:     0.20,
		Complexity: 0.15,
		Critical:   0.10,
	}
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	cfg := DefaultConfig()

	for name, agent := range cfg.Agents {
		v.SetDefault("agents."+name+".command", agent.Command)
		v.SetDefault("agents."+name+".args", agent.Args)
	}

	v.SetDefault("execution.max_concurrency", cfg.Execution.MaxConcurrency)
	v.SetDefault("execution.job_timeout", cfg.Execution.JobTimeout.String())
	v.SetDefault("execution.overall_deadline", cfg.Execution.OverallDeadline.String())

	v.SetDefault("workspace.base_dir", cfg.Workspace.BaseDir)
	v.SetDefault("workspace.base_ref", cfg.Workspace.BaseRef)
	v.SetDefault("workspace.base_port", cfg.Workspace.BasePort)
	v.SetDefault("workspace.port_pool_size", cfg.Workspace.PortPoolSize)

	v.SetDefault("compare.min_quality_score", cfg.Compare.MinQualityScore)
	v.SetDefault("compare.decisiveness_margin", cfg.Compare.DecisivenessMargin)
	v.SetDefault("compare.min_confidence", cfg.Compare.MinConfidence)
	v.SetDefault("compare.weights.coverage", cfg.Compare.Weights.Coverage)
	v.SetDefault("compare.weights.test_pass", cfg.Compare.Weights.TestPass)
	v.SetDefault("compare.weights.static_analysis", cfg.Compare.Weights.Static)
	v.SetDefault("compare.weights.complexity", cfg.Compare.Weights.Complexity)
	v.SetDefault("compare.weights.critical_issues", cfg.Compare.Weights.Critical)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", cfg.Logging.MaxAgeDays)
}
