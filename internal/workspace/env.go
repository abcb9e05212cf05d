package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mrz1836/quorum/internal/constants"
)

// filePerm is the permission used for workspace environment files.
const filePerm = 0o600

// buildEnv merges the port bindings with caller-supplied extras. The port is
// exposed under both PORT and DEV_SERVER_PORT so common dev servers pick it
// up without per-tool configuration.
func buildEnv(port int, extra map[string]string) map[string]string {
	env := make(map[string]string, len(extra)+2)
	for k, v := range extra {
		env[k] = v
	}
	env["PORT"] = strconv.Itoa(port)
	env["DEV_SERVER_PORT"] = strconv.Itoa(port)
	return env
}

// writeEnvFile writes the isolated environment file into the worktree.
// Keys are sorted so the file content is deterministic.
func writeEnvFile(worktreePath string, env map[string]string) (string, error) {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(env[k])
		b.WriteByte('\n')
	}

	path := filepath.Join(worktreePath, constants.EnvFileName)
	if err := os.WriteFile(path, []byte(b.String()), filePerm); err != nil {
		return "", fmt.Errorf("failed to write env file: %w", err)
	}
	return path, nil
}
