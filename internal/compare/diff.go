package compare

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mrz1836/quorum/internal/git"
)

// DiffAnalyzer reports which files an implementation branch changed relative
// to the base ref. Abstracted so the engine can be tested without a real
// repository.
type DiffAnalyzer interface {
	// ChangedFiles lists the paths changed on branch since it diverged from
	// baseRef.
	ChangedFiles(ctx context.Context, branch, baseRef string) ([]string, error)
}

// GitDiffAnalyzer implements DiffAnalyzer with git diff against the main
// repository.
type GitDiffAnalyzer struct {
	// RepoPath is the main repository root. Branch refs resolve there even
	// when their worktrees live elsewhere.
	RepoPath string
}

// ChangedFiles runs git diff --name-only baseRef...branch.
func (g *GitDiffAnalyzer) ChangedFiles(ctx context.Context, branch, baseRef string) ([]string, error) {
	out, err := git.RunCommand(ctx, g.RepoPath, "diff", "--name-only", baseRef+"..."+branch)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// summarizeDiff describes how two implementations' change sets relate:
// what they both touched and what each touched alone.
func summarizeDiff(agentA string, filesA []string, agentB string, filesB []string) string {
	inA := make(map[string]bool, len(filesA))
	for _, f := range filesA {
		inA[f] = true
	}
	inB := make(map[string]bool, len(filesB))
	for _, f := range filesB {
		inB[f] = true
	}

	var common, onlyA, onlyB []string
	for f := range inA {
		if inB[f] {
			common = append(common, f)
		} else {
			onlyA = append(onlyA, f)
		}
	}
	for f := range inB {
		if !inA[f] {
			onlyB = append(onlyB, f)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	var b strings.Builder
	fmt.Fprintf(&b, "%d files changed by both", len(common))
	if len(common) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(common, ", "))
	}
	fmt.Fprintf(&b, "; %d only by %s", len(onlyA), agentA)
	if len(onlyA) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(onlyA, ", "))
	}
	fmt.Fprintf(&b, "; %d only by %s", len(onlyB), agentB)
	if len(onlyB) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(onlyB, ", "))
	}
	return b.String()
}
