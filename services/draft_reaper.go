package services

import (
	"context"
	"fmt"
	"time"

	"github.com/campusdesk/swo-feedback/config"
	"github.com/campusdesk/swo-feedback/internal/store"
	"github.com/campusdesk/swo-feedback/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const reaperRunTimeout = 4 * time.Minute

// DraftReaper periodically deletes drafts that were abandoned before submission.
type DraftReaper struct {
	responses store.ResponseStore
	schedule  string
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.SugaredLogger
}

func NewDraftReaper(responses store.ResponseStore, cfg config.ReaperConfig) *DraftReaper {
	return &DraftReaper{
		responses: responses,
		schedule:  cfg.Schedule,
		retention: time.Duration(cfg.DraftRetentionDays) * 24 * time.Hour,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		now:       time.Now,
		log:       logger.GetLogger().Named("draft-reaper"),
	}
}

// Start registers the schedule and starts the cron scheduler.
func (r *DraftReaper) Start() error {
	if r.retention <= 0 {
		return fmt.Errorf("draft retention must be positive")
	}
	_, err := r.cron.AddFunc(r.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reaperRunTimeout)
		defer cancel()
		if _, err := r.Run(ctx); err != nil {
			r.log.Errorw("Draft reaper run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reaper schedule %q: %w", r.schedule, err)
	}
	r.cron.Start()
	r.log.Infow("Draft reaper started", "schedule", r.schedule, "retention", r.retention.String())
	return nil
}

// Stop halts the scheduler and waits for a running sweep up to ctx's deadline.
func (r *DraftReaper) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		r.log.Warn("Draft reaper did not stop before shutdown deadline")
	}
}

// Run deletes drafts not touched within the retention window.
func (r *DraftReaper) Run(ctx context.Context) (int64, error) {
	cutoff := r.now().Add(-r.retention)
	n, err := r.responses.DeleteStaleDrafts(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale drafts: %w", err)
	}
	if n > 0 {
		r.log.Infow("Removed stale drafts", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
