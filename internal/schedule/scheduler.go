// Package schedule runs recurring jobs on cron specs.
package schedule

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Job is a unit of recurring work. Run is never invoked concurrently
// with itself; an overlapping trigger is skipped instead.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

func NewScheduler() *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &Scheduler{cron: cron.New(cron.WithParser(parser))}
}

func (s *Scheduler) AddJob(job Job, spec string) error {
	e := &entry{sched: s, job: job, spec: spec}
	if _, err := s.cron.AddFunc(spec, e.trigger); err != nil {
		e.logger(context.Background()).Error("schedule job failed", zap.Error(err))
		return err
	}
	e.logger(context.Background()).Info("job scheduled")
	return nil
}

func (s *Scheduler) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx = ctx
	s.cron.Start()
}

// Stop halts the trigger loop and waits for a running job to return.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// entry is one scheduled job plus its reentrancy guard.
type entry struct {
	sched   *Scheduler
	job     Job
	spec    string
	running atomic.Bool
}

func (e *entry) logger(ctx context.Context) *zap.Logger {
	return logutil.GetLogger(ctx).With(
		zap.String("job", e.job.Name()),
		zap.String("spec", e.spec))
}

func (e *entry) trigger() {
	ctx := e.sched.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if !e.running.CompareAndSwap(false, true) {
		e.logger(ctx).Info("job skipped: still running")
		return
	}
	defer e.running.Store(false)

	logger := e.logger(ctx)
	start := time.Now()
	logger.Info("job started")
	if err := e.job.Run(ctx); err != nil {
		logger.Error("job finished", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	logger.Info("job finished", zap.Duration("duration", time.Since(start)))
}
