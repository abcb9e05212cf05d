package compare

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/quorum/internal/domain"
	qerrors "github.com/mrz1836/quorum/internal/errors"
)

// Collector gathers raw quality metrics for one completed job's workspace.
// Implementations wrap coverage tools, linters, or pre-computed agent
// self-reports; the engine does not care which.
type Collector interface {
	// Collect measures the implementation produced by the job.
	Collect(ctx context.Context, job *domain.Job) (*domain.Metrics, error)
}

// CollectorFunc adapts a plain function to the Collector interface.
type CollectorFunc func(ctx context.Context, job *domain.Job) (*domain.Metrics, error)

// Collect calls the wrapped function.
func (f CollectorFunc) Collect(ctx context.Context, job *domain.Job) (*domain.Metrics, error) {
	return f(ctx, job)
}

// StaticCollector serves pre-computed metrics keyed by job ID. Used when
// metrics arrive out of band, for example parsed from agent reports.
type StaticCollector struct {
	Metrics map[string]domain.Metrics
}

// Collect looks up the job's metrics. Missing entries are an error so a
// silently unmeasured implementation cannot win by default zeroes.
func (s *StaticCollector) Collect(_ context.Context, job *domain.Job) (*domain.Metrics, error) {
	m, ok := s.Metrics[job.ID]
	if !ok {
		return nil, fmt.Errorf("%w: no metrics for job %s", qerrors.ErrEmptyValue, job.ID)
	}
	return &m, nil
}

// collectAll runs the collector for every job concurrently and returns
// metrics keyed by job ID. Collection failures are returned per job rather
// than aborting the whole batch.
func collectAll(ctx context.Context, c Collector, jobs []*domain.Job) (map[string]domain.Metrics, map[string]error) {
	var mu sync.Mutex
	metrics := make(map[string]domain.Metrics, len(jobs))
	failures := make(map[string]error)

	var g errgroup.Group
	for _, job := range jobs {
		g.Go(func() error {
			m, err := c.Collect(ctx, job)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[job.ID] = err
				return nil
			}
			metrics[job.ID] = *m
			return nil
		})
	}
	// Goroutines never return errors; failures are collected per job.
	_ = g.Wait()

	return metrics, failures
}
