// Package logging provides logging utilities including sensitive data
// filtering. Workspaces carry agent API keys in their environments, so
// anything that might echo an environment must pass through these filters
// before reaching a log file.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

// sensitivePatterns matches common API key, token, and credential formats
// used by the supported agent CLIs.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// Anthropic API keys
	regexp.MustCompile(`sk-ant-api[a-zA-Z0-9_-]+`),

	// OpenAI API keys
	regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),

	// Google AI API keys
	regexp.MustCompile(`AIza[a-zA-Z0-9_-]{30,}`),

	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{20,}`),

	// Key/value shapes: api_key=..., token: "...", password=...
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*["']?([a-zA-Z0-9_-]{16,})["']?`),
	regexp.MustCompile(`(?i)(secret|password|credential|passwd|pwd)\s*[:=]\s*["']?[^\s"']{8,}["']?`),
	regexp.MustCompile(`(?i)(token|auth)\s*[:=]\s*["']?[a-zA-Z0-9+/=_-]{20,}["']?`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_-]{20,}`),

	// SSH private keys
	regexp.MustCompile(`(?i)-----BEGIN[A-Z\s]+PRIVATE KEY-----`),
}

// sensitiveFieldNames lists field names whose values are always redacted.
// Matching is case-insensitive and by substring.
var sensitiveFieldNames = []string{ //nolint:gochecknoglobals // Package-level patterns for reuse
	"api_key",
	"apikey",
	"api-key",
	"password",
	"passwd",
	"secret",
	"credential",
	"token",
	"authorization",
	"private_key",
}

// SensitiveDataHook is a zerolog hook that flags events whose message matches
// a sensitive pattern. Zerolog hooks cannot rewrite the message, so the
// actual redaction happens in FilteringWriter and at call sites via
// SafeValue; the hook marks entries that slipped through.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a hook for flagging sensitive log messages.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements the zerolog.Hook interface.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every sensitive pattern match in value with
// RedactedValue.
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveFieldName reports whether a field name indicates sensitive data.
func IsSensitiveFieldName(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFieldNames {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

// SafeValue returns a loggable form of a field value: fully redacted when the
// field name itself is sensitive, pattern-filtered otherwise.
func SafeValue(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// FilteringWriter wraps an io.Writer and redacts sensitive data from all
// output. Log file writers are wrapped with this so credentials never reach
// disk even when a message slips past call-site filtering.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a FilteringWriter around w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer, filtering before writing. The original length
// is returned so callers never observe a short write caused by redaction.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err = fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}
