package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/quorum/internal/agent"
	"github.com/mrz1836/quorum/internal/clock"
	"github.com/mrz1836/quorum/internal/constants"
	"github.com/mrz1836/quorum/internal/ctxutil"
	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
	"github.com/mrz1836/quorum/internal/workspace"
)

// Options configures a Coordinator.
type Options struct {
	// MaxConcurrency bounds how many jobs run simultaneously.
	// Zero means constants.DefaultMaxConcurrency.
	MaxConcurrency int

	// JobTimeout is the default per-job timeout, used when an assignment does
	// not specify its own. Zero means constants.DefaultJobTimeout.
	JobTimeout time.Duration

	// OverallDeadline bounds the whole parallel run. Zero means
	// constants.DefaultOverallDeadline.
	OverallDeadline time.Duration

	// BaseRef is the git ref workspaces branch from.
	// Empty means constants.DefaultBaseRef.
	BaseRef string

	// Clock provides time. Nil means the system clock.
	Clock clock.Clock

	// Logger receives coordinator diagnostics. Zero value logs nowhere useful,
	// so callers normally pass a configured logger.
	Logger zerolog.Logger
}

// Summary is a point-in-time aggregate of a run's job states.
type Summary struct {
	Total     int           `json:"total"`
	Pending   int           `json:"pending"`
	Running   int           `json:"running"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
	TimedOut  int           `json:"timed_out"`
	Cancelled int           `json:"cancelled"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Done reports whether every job reached a terminal state.
func (s Summary) Done() bool {
	return s.Total > 0 && s.Pending == 0 && s.Running == 0
}

// execution is the per-run message-passing machinery. One loop goroutine owns
// the job map for the lifetime of the run; workers communicate through events
// and readers through snapshot requests.
type execution struct {
	events   chan event
	snapReq  chan chan []*domain.Job
	loopDone chan struct{}
	cancel   context.CancelFunc
	started  time.Time
	order    []string
}

// send delivers an event to the run loop.
func (ex *execution) send(ev event) {
	ex.events <- ev
}

// Coordinator schedules agent jobs across isolated workspaces. A coordinator
// runs one parallel execution at a time; progress, summary and cancellation
// remain available during and after the run.
type Coordinator struct {
	workspaces workspace.Manager
	runner     agent.Runner
	opts       Options
	clk        clock.Clock
	logger     zerolog.Logger

	mu       sync.Mutex
	run      *execution
	lastJobs []*domain.Job
	started  time.Time
	elapsed  time.Duration
}

// New creates a Coordinator. The instruction table is validated here so a
// missing agent template surfaces at startup, not mid-run.
func New(workspaces workspace.Manager, runner agent.Runner, opts Options) (*Coordinator, error) {
	if workspaces == nil {
		return nil, fmt.Errorf("%w: workspace manager is required", qerrors.ErrEmptyValue)
	}
	if runner == nil {
		return nil, fmt.Errorf("%w: agent runner is required", qerrors.ErrEmptyValue)
	}
	if err := agent.ValidateInstructions(); err != nil {
		return nil, err
	}

	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = constants.DefaultMaxConcurrency
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = constants.DefaultJobTimeout
	}
	if opts.OverallDeadline <= 0 {
		opts.OverallDeadline = constants.DefaultOverallDeadline
	}
	if opts.BaseRef == "" {
		opts.BaseRef = constants.DefaultBaseRef
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	return &Coordinator{
		workspaces: workspaces,
		runner:     runner,
		opts:       opts,
		clk:        clk,
		logger:     opts.Logger,
	}, nil
}

// ExecuteParallel runs one job per assignment with bounded concurrency and
// blocks until every job reaches a terminal state. Jobs are returned in
// assignment order. Individual job failures never fail the run; the error
// return covers run-level problems only (bad input, a run already active).
func (c *Coordinator) ExecuteParallel(ctx context.Context, assignments []*domain.Assignment) ([]*domain.Job, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := validateBatch(assignments); err != nil {
		return nil, err
	}

	jobs := make(map[string]*domain.Job, len(assignments))
	order := make([]string, 0, len(assignments))
	for _, a := range assignments {
		job := &domain.Job{
			ID:         uuid.NewString(),
			Assignment: *a,
			Status:     constants.JobStatusPending,
			Timeout:    c.resolveTimeout(a),
		}
		jobs[job.ID] = job
		order = append(order, job.ID)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.opts.OverallDeadline)
	defer cancel()

	ex := &execution{
		events:   make(chan event, len(assignments)*4),
		snapReq:  make(chan chan []*domain.Job),
		loopDone: make(chan struct{}),
		cancel:   cancel,
		started:  c.clk.Now(),
		order:    order,
	}

	c.mu.Lock()
	if c.run != nil {
		c.mu.Unlock()
		return nil, qerrors.ErrRunInProgress
	}
	c.run = ex
	c.started = ex.started
	c.mu.Unlock()

	go c.loop(ex, jobs)

	c.logger.Info().
		Int("jobs", len(assignments)).
		Int("max_concurrency", c.opts.MaxConcurrency).
		Dur("overall_deadline", c.opts.OverallDeadline).
		Msg("starting parallel execution")

	var g errgroup.Group
	g.SetLimit(c.opts.MaxConcurrency)
	for _, id := range order {
		job := jobs[id]
		g.Go(func() error {
			c.runJob(runCtx, ex, job)
			return nil
		})
	}
	// Workers always return nil; outcomes live in the jobs themselves.
	_ = g.Wait()

	close(ex.events)
	<-ex.loopDone

	c.mu.Lock()
	final := c.lastJobs
	c.run = nil
	c.elapsed = c.clk.Now().Sub(ex.started)
	c.mu.Unlock()

	c.logger.Info().
		Dur("elapsed", c.clk.Now().Sub(ex.started)).
		Msg("parallel execution finished")

	return cloneJobs(final), nil
}

// loop is the single owner of the job map during a run. It applies worker
// events in arrival order and serves read snapshots, so readers always
// observe a consistent state and never a torn write.
func (c *Coordinator) loop(ex *execution, jobs map[string]*domain.Job) {
	defer func() {
		// The final snapshot is published before loopDone closes, so a
		// reader that observes completion never sees a previous run's jobs.
		c.mu.Lock()
		c.lastJobs = snapshotJobs(jobs, ex.order)
		c.mu.Unlock()
		close(ex.loopDone)
	}()
	for {
		select {
		case ev, ok := <-ex.events:
			if !ok {
				return
			}
			applyEvent(jobs, ev, c.logger)
		case req := <-ex.snapReq:
			req <- snapshotJobs(jobs, ex.order)
		}
	}
}

// runJob drives one job through its lifecycle. It holds a concurrency slot
// for its whole duration.
func (c *Coordinator) runJob(runCtx context.Context, ex *execution, job *domain.Job) {
	a := job.Assignment

	// The run may have been cancelled or deadlined while this job waited for
	// a slot. Such jobs are abandoned without ever starting.
	if runCtx.Err() != nil {
		ex.send(finishEvent{id: job.ID, at: c.clk.Now(), status: constants.JobStatusCancelled})
		return
	}

	ex.send(startEvent{id: job.ID, at: c.clk.Now()})
	c.logJob(ex, job.ID, fmt.Sprintf("job started for agent %s on task %s", a.Agent, a.TaskID))

	ws, err := c.workspaces.Create(runCtx, a.Agent, a.TaskID, c.opts.BaseRef)
	if err != nil {
		c.logJob(ex, job.ID, "workspace provisioning failed: "+err.Error())
		ex.send(finishEvent{id: job.ID, at: c.clk.Now(), status: c.classify(runCtx, nil, err)})
		return
	}
	ex.send(provisionEvent{id: job.ID, ws: ws})
	c.logJob(ex, job.ID, fmt.Sprintf("workspace ready at %s on branch %s (port %d)", ws.Path, ws.Branch, ws.Port))

	prompt, err := agent.BuildPrompt(&a, ws)
	if err != nil {
		c.failJob(runCtx, ex, job.ID, ws, "prompt rendering failed: "+err.Error())
		return
	}

	jobCtx, cancelJob := context.WithTimeout(runCtx, job.Timeout)
	defer cancelJob()

	c.logJob(ex, job.ID, fmt.Sprintf("invoking %s (timeout %s)", a.Agent, job.Timeout))

	// The invocation races its timer. The timer firing settles the job at
	// once, whether or not the runner honors cancellation; a runner that
	// keeps going is abandoned and its eventual output discarded.
	type runResult struct {
		res *domain.AgentResult
		err error
	}
	outcome := make(chan runResult, 1)
	go func() {
		res, err := c.runner.Run(jobCtx, &agent.Request{
			Agent:  a.Agent,
			Prompt: prompt,
			Dir:    ws.Path,
			Env:    ws.EnvVars,
		})
		outcome <- runResult{res: res, err: err}
	}()

	var status constants.JobStatus
	var res *domain.AgentResult
	select {
	case r := <-outcome:
		res = r.res
		if r.err == nil {
			status = constants.JobStatusCompleted
			if res.ExitCode != 0 {
				status = constants.JobStatusFailed
			}
			c.logJob(ex, job.ID, fmt.Sprintf("agent exited with code %d", res.ExitCode))
		} else {
			status = c.classify(runCtx, jobCtx, r.err)
			c.logJob(ex, job.ID, "agent invocation ended: "+r.err.Error())
		}
	case <-jobCtx.Done():
		status = c.classify(runCtx, jobCtx, jobCtx.Err())
		c.logJob(ex, job.ID, "abandoning agent invocation: "+jobCtx.Err().Error())
	}

	ex.send(finishEvent{id: job.ID, at: c.clk.Now(), status: status, result: res})
	c.settleWorkspace(runCtx, ws, status)
}

// failJob settles a job as failed after its workspace already exists.
func (c *Coordinator) failJob(runCtx context.Context, ex *execution, jobID string, ws *domain.Workspace, line string) {
	c.logJob(ex, jobID, line)
	ex.send(finishEvent{id: jobID, at: c.clk.Now(), status: constants.JobStatusFailed})
	c.settleWorkspace(runCtx, ws, constants.JobStatusFailed)
}

// classify maps an execution error onto a terminal status. Cancellation of
// the whole run wins over a per-job deadline; a per-job deadline wins over
// whatever error the interrupted operation reported.
func (c *Coordinator) classify(runCtx, jobCtx context.Context, _ error) constants.JobStatus {
	switch {
	case errors.Is(runCtx.Err(), context.Canceled):
		return constants.JobStatusCancelled
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return constants.JobStatusTimeout
	case jobCtx != nil && errors.Is(jobCtx.Err(), context.DeadlineExceeded):
		return constants.JobStatusTimeout
	default:
		return constants.JobStatusFailed
	}
}

// settleWorkspace records the job outcome on its workspace. Anything but a
// clean completion taints the workspace. The update must survive run
// cancellation, so it runs on a detached context.
func (c *Coordinator) settleWorkspace(runCtx context.Context, ws *domain.Workspace, status constants.JobStatus) {
	wsStatus := constants.WorkspaceStatusFailed
	if status == constants.JobStatusCompleted {
		wsStatus = constants.WorkspaceStatusCompleted
	}

	ctx := context.WithoutCancel(runCtx)
	if err := c.workspaces.UpdateStatus(ctx, ws.Agent, ws.TaskID, wsStatus); err != nil {
		c.logger.Warn().Err(err).
			Str("workspace", ws.Key()).
			Msg("failed to record workspace outcome")
	}
}

// logJob appends a log line to a job through the event loop.
func (c *Coordinator) logJob(ex *execution, jobID, line string) {
	ex.send(logEvent{id: jobID, at: c.clk.Now(), line: line})
}

// MonitorProgress returns a consistent snapshot of every job in the current
// run, or the final jobs of the last run when nothing is executing. Snapshots
// are deep copies; mutating them has no effect on the run.
func (c *Coordinator) MonitorProgress(ctx context.Context) ([]*domain.Job, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	run := c.run
	last := c.lastJobs
	c.mu.Unlock()

	if run == nil {
		return cloneJobs(last), nil
	}

	req := make(chan []*domain.Job, 1)
	select {
	case run.snapReq <- req:
		select {
		case snap := <-req:
			return snap, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	case <-run.loopDone:
		// The run finished between the check and the request.
		c.mu.Lock()
		last = c.lastJobs
		c.mu.Unlock()
		return cloneJobs(last), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CancelAll requests cancellation of the current run and returns immediately.
// Pending jobs are abandoned before starting; running jobs have their agent
// processes interrupted and settle as cancelled. Calling it with no active
// run is a no-op.
func (c *Coordinator) CancelAll() {
	c.mu.Lock()
	run := c.run
	c.mu.Unlock()

	if run == nil {
		return
	}
	c.logger.Info().Msg("cancelling all jobs")
	run.cancel()
}

// GetSummary aggregates the current job states into per-status counts plus
// elapsed wall time.
func (c *Coordinator) GetSummary(ctx context.Context) (Summary, error) {
	jobs, err := c.MonitorProgress(ctx)
	if err != nil {
		return Summary{}, err
	}

	c.mu.Lock()
	running := c.run != nil
	started := c.started
	elapsed := c.elapsed
	c.mu.Unlock()

	s := Summary{Total: len(jobs)}
	for _, j := range jobs {
		switch j.Status {
		case constants.JobStatusPending:
			s.Pending++
		case constants.JobStatusRunning:
			s.Running++
		case constants.JobStatusCompleted:
			s.Completed++
		case constants.JobStatusFailed:
			s.Failed++
		case constants.JobStatusTimeout:
			s.TimedOut++
		case constants.JobStatusCancelled:
			s.Cancelled++
		}
	}

	if running {
		s.Elapsed = c.clk.Now().Sub(started)
	} else {
		s.Elapsed = elapsed
	}
	return s, nil
}

// resolveTimeout picks the per-job timeout: assignment override first, then
// the coordinator default.
func (c *Coordinator) resolveTimeout(a *domain.Assignment) time.Duration {
	if a.Timeout > 0 {
		return a.Timeout
	}
	return c.opts.JobTimeout
}

// validateBatch checks the assignment batch before any job is created.
func validateBatch(assignments []*domain.Assignment) error {
	if len(assignments) == 0 {
		return qerrors.ErrNoAssignments
	}

	seen := make(map[string]struct{}, len(assignments))
	for i, a := range assignments {
		if a == nil {
			return fmt.Errorf("%w: assignment %d is nil", qerrors.ErrInvalidAssignment, i)
		}
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%w: assignment %d: %w", qerrors.ErrInvalidAssignment, i, err)
		}
		key := domain.WorkspaceKey(a.Agent, a.TaskID)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate agent/task pair %s", qerrors.ErrInvalidAssignment, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// snapshotJobs deep-copies the job map in assignment order. Only the loop
// goroutine calls this.
func snapshotJobs(jobs map[string]*domain.Job, order []string) []*domain.Job {
	out := make([]*domain.Job, 0, len(order))
	for _, id := range order {
		out = append(out, jobs[id].Clone())
	}
	return out
}

// cloneJobs deep-copies a job slice.
func cloneJobs(jobs []*domain.Job) []*domain.Job {
	out := make([]*domain.Job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Clone())
	}
	return out
}
