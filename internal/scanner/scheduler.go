package scanner

import (
	"context"

	"github.com/robfig/cron/v3"

	"vibe-gallery/internal/logging"
)

// Scheduler triggers scans on a cron schedule, plus one pass at startup so a
// fresh deployment has a populated catalog before the first scheduled run.
type Scheduler struct {
	scanner  *Scanner
	schedule string
	cron     *cron.Cron
}

// NewScheduler creates a Scheduler. The schedule uses cron syntax and accepts
// the @every shorthand, e.g. "@every 30m".
func NewScheduler(scanner *Scanner, schedule string) *Scheduler {
	return &Scheduler{
		scanner:  scanner,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start kicks off the startup scan and registers the recurring job. It
// returns an error only if the schedule expression does not parse.
func (sch *Scheduler) Start(ctx context.Context) error {
	go func() {
		if _, err := sch.scanner.Scan(ctx); err != nil {
			logging.Error("Startup scan failed: %v", err)
		}
	}()

	_, err := sch.cron.AddFunc(sch.schedule, func() {
		if _, err := sch.scanner.Scan(ctx); err != nil {
			logging.Error("Scheduled scan failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	sch.cron.Start()
	logging.Info("Scan scheduler started, schedule: %s", sch.schedule)
	return nil
}

// Stop halts the cron scheduler. A scan already in flight runs to completion
// unless its context is cancelled.
func (sch *Scheduler) Stop() {
	sch.cron.Stop()
	logging.Info("Scan scheduler stopped")
}
