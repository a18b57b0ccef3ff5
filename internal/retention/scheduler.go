package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// entry pairs a registered job with the mutex that keeps its executions
// serial. A tick that arrives while the previous run is still going is
// skipped, not queued.
type entry struct {
	job     Job
	running sync.Mutex
}

// Scheduler drives registered jobs on their cron schedules.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	cron    *cron.Cron
	cancel  context.CancelFunc
	logger  *slog.Logger
}

// NewScheduler creates an empty scheduler. Register jobs, then Start.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{logger: logger}
}

// RegisterJob adds a job. Names must be unique; registration after Start has
// no effect on the running schedule.
func (s *Scheduler) RegisterJob(j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.job.Name() == j.Name() {
			return fmt.Errorf("retention: duplicate job name %q", j.Name())
		}
	}
	s.entries = append(s.entries, &entry{job: j})
	return nil
}

// Start validates every schedule expression and begins ticking. A single bad
// expression fails the whole start.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	fiveField := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	s.cron = cron.New(cron.WithParser(fiveField))

	for _, e := range s.entries {
		e := e
		if _, err := s.cron.AddFunc(e.job.Schedule(), func() { s.tick(ctx, e) }); err != nil {
			cancel()
			return fmt.Errorf("retention: job %q: bad schedule %q: %w", e.job.Name(), e.job.Schedule(), err)
		}
	}

	s.cron.Start()
	s.logger.Info("retention scheduler started", "jobs", len(s.entries))
	return nil
}

// tick runs one scheduled execution, skipping if the previous one is still
// in flight.
func (s *Scheduler) tick(ctx context.Context, e *entry) {
	if !e.running.TryLock() {
		s.logger.Warn("retention job overrun, skipping tick", "job", e.job.Name())
		return
	}
	defer e.running.Unlock()

	if err := e.job.Run(ctx); err != nil {
		s.logger.Error("retention job failed", "job", e.job.Name(), "error", err)
		return
	}
	s.logger.Debug("retention job completed", "job", e.job.Name())
}

// Stop cancels job contexts and waits for in-flight executions to finish.
func (s *Scheduler) Stop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.logger.Info("retention scheduler stopped")
	}
	return nil
}
