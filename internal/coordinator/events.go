package coordinator

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/quorum/internal/constants"
	"github.com/mrz1836/quorum/internal/domain"
)

// event is a mutation request sent to the run loop. The loop goroutine is the
// only writer of the job map; workers never touch jobs directly.
type event interface {
	jobID() string
}

// startEvent moves a job from pending to running.
type startEvent struct {
	id string
	at time.Time
}

func (e startEvent) jobID() string { return e.id }

// logEvent appends a log line to a job.
type logEvent struct {
	id   string
	at   time.Time
	line string
}

func (e logEvent) jobID() string { return e.id }

// provisionEvent attaches a freshly created workspace to a running job.
type provisionEvent struct {
	id string
	ws *domain.Workspace
}

func (e provisionEvent) jobID() string { return e.id }

// finishEvent settles a job into a terminal state.
type finishEvent struct {
	id     string
	at     time.Time
	status constants.JobStatus
	result *domain.AgentResult
}

func (e finishEvent) jobID() string { return e.id }

// applyEvent mutates the job map according to one event.
//
// Events addressed to jobs already in a terminal state are dropped silently:
// an abandoned operation may still emit output after its job timed out or was
// cancelled, and that output is discarded. An event that would perform an
// invalid transition on a live job indicates a coordinator bug and panics.
func applyEvent(jobs map[string]*domain.Job, ev event, logger zerolog.Logger) {
	job, ok := jobs[ev.jobID()]
	if !ok {
		panic(fmt.Sprintf("coordinator: event for unknown job %s", ev.jobID()))
	}

	if job.IsTerminal() {
		logger.Debug().
			Str("job_id", job.ID).
			Str("status", job.Status.String()).
			Msg("dropping late event for terminal job")
		return
	}

	switch e := ev.(type) {
	case startEvent:
		transition(job, constants.JobStatusRunning)
		job.StartedAt = e.at

	case logEvent:
		job.Logs = append(job.Logs, domain.LogEntry{Time: e.at, Line: e.line})

	case provisionEvent:
		job.Workspace = e.ws

	case finishEvent:
		transition(job, e.status)
		job.EndedAt = e.at
		job.Result = e.result

	default:
		panic(fmt.Sprintf("coordinator: unknown event type %T", ev))
	}
}

// transition applies a status change, panicking on an invalid transition.
// Callers have already excluded terminal jobs, so any violation here is a
// programming error, not a race.
func transition(job *domain.Job, to constants.JobStatus) {
	if !IsValidTransition(job.Status, to) {
		panic(fmt.Sprintf("coordinator: invalid transition %s -> %s for job %s",
			job.Status, to, job.ID))
	}
	job.Status = to
}
