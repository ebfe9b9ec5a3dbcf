package schedule

import (
	"context"
	"time"

	"github.com/sdejongh/replicasync/pkg/logging"
)

// Job is one synchronization run
type Job func(ctx context.Context) error

// Runner invokes a job once, or repeatedly on a fixed interval
type Runner struct {
	// Interval between runs; 0 runs the job exactly once
	Interval time.Duration
	// Spec is the interval as the user wrote it, used in log messages
	Spec   string
	Job    Job
	Logger logging.Logger
}

// Run executes the job. With an interval, the first run starts after one
// interval and runs never overlap. A failed periodic run is logged and the
// schedule continues; Run returns when ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	if r.Interval <= 0 {
		logger.Info(ctx, "Synchronization execution started", nil)
		return r.Job(ctx)
	}

	spec := r.Spec
	if spec == "" {
		spec = r.Interval.String()
	}
	logger.Info(ctx, "Synchronization job started with interval "+spec, logging.Fields{
		"interval": r.Interval.String(),
	})

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := r.Job(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error(ctx, "Synchronization run failed", err, nil)
		}
	}
}
