// Package jobs runs the client's periodic tasks inside a scope whose lifetime
// is tied to one view.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/bizboard/internal/logging"
	"github.com/go-co-op/gocron/v2"
)

const stopTimeout = 5 * time.Second

// Scope owns a scheduler and a context. Tasks receive the scope context,
// which is cancelled by Stop or by the parent context.
type Scope struct {
	sched  gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
	log    logging.Logger

	stopOnce sync.Once
	stopErr  error
}

func NewScope(parent context.Context, log logging.Logger) (*Scope, error) {
	sched, err := gocron.NewScheduler(gocron.WithStopTimeout(stopTimeout))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scope{sched: sched, ctx: ctx, cancel: cancel, log: log.With("component", "jobs")}, nil
}

// Every registers task to run each interval. With immediate set, the first
// run happens as soon as the scope starts. A run is skipped while the
// previous one is still going.
func (s *Scope) Every(name string, interval time.Duration, immediate bool, task func(ctx context.Context)) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive, got %s", name, interval)
	}

	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if immediate {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if s.ctx.Err() != nil {
				return
			}
			task(s.ctx)
		}),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

// Start begins running the registered jobs and arranges for Stop when the
// parent context ends.
func (s *Scope) Start() {
	s.sched.Start()
	go func() {
		<-s.ctx.Done()
		_ = s.Stop()
	}()
}

// Context is cancelled once the scope stops.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Stop cancels the scope context and waits for running tasks. Safe to call
// more than once.
func (s *Scope) Stop() error {
	s.stopOnce.Do(func() {
		s.cancel()
		if err := s.sched.Shutdown(); err != nil {
			s.log.Error(context.Background(), "scheduler shutdown failed", "err", err)
			s.stopErr = fmt.Errorf("stop jobs: %w", err)
		}
	})
	return s.stopErr
}
