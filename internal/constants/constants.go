// Package constants provides shared constants for the Quorum orchestration system.
// This package MUST NOT import any other internal packages.
package constants

import "time"

// QuorumHome is the name of the per-user state directory (under $HOME).
const QuorumHome = ".quorum"

// LogDirName is the directory under QuorumHome where log files are written.
const LogDirName = "logs"

// LogFileName is the rotating log file name.
const LogFileName = "quorum.log"

// EnvFileName is the isolated environment file written into each workspace.
const EnvFileName = ".env"

// Scheduling defaults. All of these can be overridden via configuration.
const (
	// DefaultMaxConcurrency bounds the number of simultaneously running jobs.
	DefaultMaxConcurrency = 5

	// DefaultJobTimeout is the per-job timeout applied when an assignment
	// does not carry its own.
	DefaultJobTimeout = 1 * time.Hour

	// DefaultOverallDeadline bounds a whole ExecuteParallel batch.
	DefaultOverallDeadline = 4 * time.Hour
)

// Port pool defaults. Dev servers inside workspaces bind one port each.
const (
	// DefaultBasePort is the first port handed out by the pool.
	DefaultBasePort = 3000

	// DefaultPortPoolSize is the number of ports in the managed range.
	DefaultPortPoolSize = 100
)

// Comparison defaults, taken from the recommendation policy.
const (
	// DefaultMinQualityScore is the minimum composite score required before
	// any merge recommendation stronger than manual comparison is issued.
	DefaultMinQualityScore = 70.0

	// DefaultDecisivenessMargin is the score gap between first and second
	// place required for an auto-merge recommendation.
	DefaultDecisivenessMargin = 15.0

	// DefaultMinConfidence is the confidence floor below which the engine
	// never recommends an automatic merge.
	DefaultMinConfidence = 0.5
)

// DefaultBaseRef is the ref workspaces branch from when none is specified.
const DefaultBaseRef = "main"
