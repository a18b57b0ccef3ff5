// Package retention runs periodic housekeeping for the session stores,
// chiefly the idle-session purge.
package retention

import "context"

// Job is one recurring housekeeping task.
type Job interface {
	// Name identifies the job in logs and must be unique per scheduler.
	Name() string

	// Schedule returns the job's 5-field cron expression.
	Schedule() string

	// Run performs one execution. Long-running jobs should watch ctx.
	Run(ctx context.Context) error
}
