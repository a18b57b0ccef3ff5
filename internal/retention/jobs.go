package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/attune-dev/attune/internal/history"
)

// SessionPurgeJob removes sessions that have been idle longer than MaxIdle.
type SessionPurgeJob struct {
	Store        history.Store
	MaxIdle      time.Duration
	Logger       *slog.Logger
	ScheduleExpr string           // empty = default "0 * * * *"
	Now          func() time.Time // nil = time.Now
}

// Compile-time interface check.
var _ Job = (*SessionPurgeJob)(nil)

// Name implements Job.
func (j *SessionPurgeJob) Name() string {
	return "session_purge"
}

// Schedule implements Job.
func (j *SessionPurgeJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "0 * * * *"
}

// Run purges sessions idle longer than MaxIdle.
func (j *SessionPurgeJob) Run(_ context.Context) error {
	now := j.Now
	if now == nil {
		now = time.Now
	}

	purged, err := j.Store.PurgeIdle(now().Add(-j.MaxIdle))
	if err != nil {
		return err
	}
	if purged > 0 && j.Logger != nil {
		j.Logger.Info("retention: purged idle sessions", "count", purged)
	}
	return nil
}
