package retention

import (
	"context"
	"time"

	"osprey-mdi/config"
	"osprey-mdi/core/store"
	"osprey-mdi/core/utils"

	"github.com/robfig/cron/v3"
)

// Worker periodically drops expired sessions and audit rows past the
// retention window.
type Worker struct {
	cfg      config.RetentionConfig
	sessions store.SessionStore
	audits   store.AuditStore
	logger   *utils.Logger
	cron     *cron.Cron
}

func NewWorker(cfg config.RetentionConfig, sessions store.SessionStore, audits store.AuditStore, logger *utils.Logger) *Worker {
	return &Worker{cfg: cfg, sessions: sessions, audits: audits, logger: logger}
}

func (w *Worker) Start(ctx context.Context) error {
	if !w.cfg.Enabled {
		return nil
	}
	schedule := w.cfg.Schedule
	if schedule == "" {
		schedule = "@every 1h"
	}
	w.cron = cron.New()
	if _, err := w.cron.AddFunc(schedule, func() { w.runOnce(ctx) }); err != nil {
		return err
	}
	w.cron.Start()
	if w.logger != nil {
		w.logger.Printf("retention worker started schedule=%s audit_days=%d", schedule, w.cfg.AuditDays)
	}
	return nil
}

func (w *Worker) Stop() {
	if w.cron != nil {
		w.cron.Stop()
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	now := time.Now().UTC()
	if n, err := w.sessions.PurgeExpired(ctx, now); err != nil {
		if w.logger != nil {
			w.logger.Errorf("retention: purge sessions: %v", err)
		}
	} else if n > 0 && w.logger != nil {
		w.logger.Printf("retention: purged %d expired sessions", n)
	}
	if w.cfg.AuditDays > 0 {
		cutoff := now.Add(-time.Duration(w.cfg.AuditDays) * 24 * time.Hour)
		if n, err := w.audits.PurgeBefore(ctx, cutoff); err != nil {
			if w.logger != nil {
				w.logger.Errorf("retention: purge audit log: %v", err)
			}
		} else if n > 0 && w.logger != nil {
			w.logger.Printf("retention: purged %d audit rows", n)
		}
	}
}

// RunOnce triggers a single pass outside the schedule, used by tests and
// startup cleanup.
func (w *Worker) RunOnce(ctx context.Context) {
	w.runOnce(ctx)
}
