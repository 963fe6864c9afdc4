// Package scheduler runs the background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/budgetbuddy/ledger/internal/logging"
	"github.com/robfig/cron/v3"
)

const (
	// DailySpec fires every day at 21:00.
	DailySpec = "0 21 * * *"
	// MonthlySpec fires at 09:00 on the first day of every month.
	MonthlySpec = "0 9 1 * *"
)

type JobFunc func(ctx context.Context) error

type Scheduler struct {
	cron *cron.Cron
	log  logging.Logger
	ctx  context.Context
}

func New(loc *time.Location, log logging.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logging.Nop{}
	}

	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log: log,
		ctx: context.Background(),
	}
}

// Add registers fn under name. Job errors are logged, never retried.
func (s *Scheduler) Add(name, spec string, fn JobFunc) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := fn(s.ctx); err != nil {
			s.log.Error(s.ctx, "job failed", "job", name, "error", err)
			return
		}
		s.log.Debug(s.ctx, "job done", "job", name, "took", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	return nil
}

// Start runs the scheduler until ctx is done; jobs get ctx. It does not
// block.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()

	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
	}()
}

// Stop stops scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Next reports when each job fires next, keyed by position of registration.
func (s *Scheduler) Next() []time.Time {
	entries := s.cron.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Next)
	}
	return out
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	log logging.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug(context.Background(), "cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error(context.Background(), "cron: "+msg, append(keysAndValues, "error", err)...)
}
