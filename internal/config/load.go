package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/quorum/internal/constants"
	"github.com/mrz1836/quorum/internal/errors"
)

// newViperInstance creates a Viper instance with the standard Quorum setup:
// built-in defaults, the QUORUM_ env prefix, and a dot-to-underscore key
// replacer so QUORUM_EXECUTION_MAX_CONCURRENCY maps onto
// execution.max_concurrency.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("QUORUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true for viper's missing-config-file error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound)
}

// Load reads configuration from all available sources with proper precedence.
// Missing config files are expected and never an error; only unreadable or
// invalid configuration fails.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := mergeFileIfExists(v, GlobalConfigPath()); err != nil {
		return nil, err
	}
	if err := mergeFileIfExists(v, ProjectConfigPath()); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Int("execution.max_concurrency", cfg.Execution.MaxConcurrency).
		Dur("execution.job_timeout", cfg.Execution.JobTimeout).
		Dur("execution.overall_deadline", cfg.Execution.OverallDeadline).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// mergeFileIfExists merges one YAML config file into the viper instance.
// A missing file is fine; a malformed one is not.
func mergeFileIfExists(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		if isConfigNotFoundError(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	return nil
}

// GlobalConfigPath returns the per-user config file path
// (~/.quorum/config.yaml), or empty if the home directory is unknown.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, constants.QuorumHome, "config.yaml")
}

// ProjectConfigPath returns the project-relative config file path.
func ProjectConfigPath() string {
	return filepath.Join(constants.QuorumHome, "config.yaml")
}

// viperDecoderOption returns the decode hook for config unmarshaling.
// It converts duration strings like "30m" into time.Duration.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
