// Package orchestrator implements the Scheduler of spec §4.7: it runs
// every discovered Project's pipeline under a bounded concurrency limit,
// emits a periodic heartbeat, and honors cooperative cancellation.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/hochfrequenz/ptr-orchestrator/internal/domain"
	"github.com/hochfrequenz/ptr-orchestrator/internal/pipeline"
)

// Config configures one Scheduler run.
type Config struct {
	AtOnce           int
	ProgressInterval time.Duration
	RunnerConfig     pipeline.RunnerConfig
}

// Scheduler dispatches Project pipelines with bounded concurrency and
// reports aggregate progress while they run.
type Scheduler struct {
	cfg Config
}

// New builds a Scheduler from cfg, clamping AtOnce to at least 1 (one
// worker per CPU is the caller's job to compute). A zero ProgressInterval
// is left as given: it disables the heartbeat, per --progress-interval's
// "0 disables" contract (spec §6) - it is not a sentinel for "unset". A
// negative ProgressInterval is replaced by 10s.
func New(cfg Config) *Scheduler {
	if cfg.AtOnce <= 0 {
		cfg.AtOnce = 1
	}
	if cfg.ProgressInterval < 0 {
		cfg.ProgressInterval = 10 * time.Second
	}
	return &Scheduler{cfg: cfg}
}

// Run executes projects' pipelines with at most cfg.AtOnce running
// concurrently, returning a RunReport whose Outcomes are in discovery
// order regardless of completion order. Cancelling ctx marks every
// project that has not yet started, and every project still running,
// as skipped-cancelled; the RunReport still reflects what actually
// completed.
func (s *Scheduler) Run(ctx context.Context, projects []*domain.Project) *domain.RunReport {
	start := time.Now()
	report := &domain.RunReport{DiscoveredCandidates: len(projects)}
	outcomes := make([]*domain.ProjectOutcome, len(projects))

	sem := semaphore.NewWeighted(int64(s.cfg.AtOnce))
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	set := func(i int, o *domain.ProjectOutcome) {
		mu.Lock()
		outcomes[i] = o
		mu.Unlock()
	}

	done := make(chan struct{})
	if s.cfg.ProgressInterval > 0 {
		go s.heartbeat(gctx, len(projects), outcomes, &mu, done)
	}

	for i, p := range projects {
		i, p := i, p
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				set(i, &domain.ProjectOutcome{Project: p, Terminal: domain.SkippedCancelled})
				return nil
			}
			defer sem.Release(1)

			set(i, pipeline.Run(gctx, p, s.cfg.RunnerConfig))
			return nil
		})
	}

	_ = g.Wait()
	close(done)

	for _, o := range outcomes {
		report.Add(o)
	}
	report.Duration = time.Since(start)
	return report
}

// heartbeat logs a ptr.py-style percentage-complete line every
// ProgressInterval until done fires.
func (s *Scheduler) heartbeat(ctx context.Context, total int, outcomes []*domain.ProjectOutcome, mu *sync.Mutex, done <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.ProgressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			mu.Lock()
			finished := 0
			for _, o := range outcomes {
				if o != nil {
					finished++
				}
			}
			mu.Unlock()
			pct := 0.0
			if total > 0 {
				pct = 100 * float64(finished) / float64(total)
			}
			log.Print(heartbeatLine(finished, total, pct))
		}
	}
}

func heartbeatLine(finished, total int, pct float64) string {
	return fmt.Sprintf("[orchestrator] %d/%d complete (%.1f%%)", finished, total, pct)
}
