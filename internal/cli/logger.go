package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/quorum/internal/config"
	"github.com/mrz1836/quorum/internal/constants"
	"github.com/mrz1836/quorum/internal/logging"
)

// Log rotation settings for the global CLI log file.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// logFileWriter holds the log file writer for cleanup during shutdown.
var logFileWriter io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup

// InitLogger creates a zerolog.Logger based on verbosity flags.
//
// Log levels: verbose maps to debug, quiet to warn, default to info.
// Console output is pretty for a TTY without NO_COLOR, JSON otherwise.
// All output is additionally written to ~/.quorum/logs/quorum.log with
// rotation; when the log file cannot be created, console-only logging is
// used instead of failing.
func InitLogger(verbose, quiet bool) zerolog.Logger {
	level := selectLevel(verbose, quiet)
	console := selectOutput()

	var writer io.Writer = console
	if fileWriter, err := createLogFileWriter(); err == nil {
		logFileWriter = fileWriter
		writer = zerolog.MultiLevelWriter(console, fileWriter)
	}

	logger := zerolog.New(writer).
		Level(level).
		Hook(logging.NewSensitiveDataHook()).
		With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// InitLoggerWithWriter creates a logger with a custom writer.
// Primarily intended for testing.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).
		Level(selectLevel(verbose, quiet)).
		Hook(logging.NewSensitiveDataHook()).
		With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// CloseLogFile closes the global log file writer if it was opened.
func CloseLogFile() {
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// applyLogLevel adjusts the global logger to the configured level once the
// configuration is known. The logger bootstraps before config loads, so this
// runs as a second step; explicit -v/-q flags win over the configured level.
func applyLogLevel(cfg *config.Config, flags *GlobalFlags) {
	if flags.Verbose || flags.Quiet {
		return
	}
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil || level == zerolog.NoLevel {
		return
	}
	setGlobalLogger(GetLogger().Level(level))
}

// selectLevel maps verbosity flags onto a zerolog level.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectOutput picks pretty console output for interactive terminals and
// JSON for everything else.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// filteringWriteCloser wraps a WriteCloser with sensitive data filtering.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

func (fwc *filteringWriteCloser) Write(p []byte) (n int, err error) {
	return fwc.filter.Write(p)
}

func (fwc *filteringWriteCloser) Close() error {
	return fwc.closer.Close()
}

// createLogFileWriter creates the rotating, credential-filtered file writer
// for the global CLI log.
func createLogFileWriter() (io.WriteCloser, error) {
	home, err := quorumHome()
	if err != nil {
		return nil, err
	}

	logDir := filepath.Join(home, constants.LogDirName)
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.LogFileName),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}

	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(lj),
		closer: lj,
	}, nil
}

// quorumHome returns the per-user state directory, honoring QUORUM_HOME.
func quorumHome() (string, error) {
	if custom := os.Getenv("QUORUM_HOME"); custom != "" {
		return custom, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, constants.QuorumHome), nil
}

// LogFilePath returns the path of the global CLI log file.
func LogFilePath() (string, error) {
	home, err := quorumHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, constants.LogDirName, constants.LogFileName), nil
}
