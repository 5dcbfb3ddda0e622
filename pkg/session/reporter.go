package session

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultReportSchedule is the cron spec used when none is configured.
const DefaultReportSchedule = "@every 1m"

// Reporter periodically publishes the live session count. The store has no
// eviction, so this is how unbounded growth shows up in logs and metrics
// instead of only in process memory.
type Reporter struct {
	store    *Store
	schedule string
	publish  func(count int)
	cron     *cron.Cron
}

// NewReporter creates a Reporter. publish may be nil; schedule falls back to
// DefaultReportSchedule when empty.
func NewReporter(store *Store, schedule string, publish func(count int)) *Reporter {
	if schedule == "" {
		schedule = DefaultReportSchedule
	}
	return &Reporter{
		store:    store,
		schedule: schedule,
		publish:  publish,
	}
}

// Start begins periodic reporting.
func (r *Reporter) Start() error {
	if r.cron != nil {
		return fmt.Errorf("session reporter is already running")
	}

	c := cron.New()
	if _, err := c.AddFunc(r.schedule, r.report); err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", r.schedule, err)
	}
	c.Start()
	r.cron = c

	log.Info().Str("schedule", r.schedule).Msg("Session stats reporter started")
	return nil
}

// Stop halts reporting. Safe to call when not running.
func (r *Reporter) Stop() {
	if r.cron == nil {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.cron = nil
}

func (r *Reporter) report() {
	count := r.store.Count()
	if r.publish != nil {
		r.publish(count)
	}
	log.Info().Int("active_sessions", count).Msg("Session stats")
}
