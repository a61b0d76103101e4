package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler runs jobs on standard five-field cron specs. A job never overlaps with
// its own previous run and a panicking job does not stop the others.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger
}

func NewScheduler(timeout time.Duration, logger *zap.Logger) *Scheduler {
	cronLogger := cronZapLogger{logger: logger.Sugar().With("component", "cron")}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			// Recover sits inside SkipIfStillRunning so a panicking run still frees its slot.
			cron.WithChain(cron.SkipIfStillRunning(cronLogger), cron.Recover(cronLogger)),
		),
		timeout: timeout,
		logger:  logger,
	}
}

func (s *Scheduler) Add(ctx context.Context, job Job) error {
	if _, err := s.cron.AddFunc(job.Spec, func() { s.runJob(ctx, job) }); err != nil {
		return fmt.Errorf("schedule %s %q: %w", job.Name, job.Spec, err)
	}
	s.logger.Info("job scheduled", zap.String("job", job.Name), zap.String("spec", job.Spec))
	return nil
}

// Run blocks until ctx is done, then waits for running jobs to return.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	s.logger.Info("job start", zap.String("job", job.Name))
	if err := job.Run(ctx); err != nil {
		s.logger.Error("job failed", zap.String("job", job.Name), zap.Duration("duration", time.Since(start)), zap.Error(err))
		return
	}
	s.logger.Info("job complete", zap.String("job", job.Name), zap.Duration("duration", time.Since(start)))
}

type cronZapLogger struct {
	logger *zap.SugaredLogger
}

func (l cronZapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronZapLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
