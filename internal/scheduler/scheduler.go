// Package scheduler wires up the cron job that periodically sweeps pending
// callbacks and publishes a due-reminder event for each one whose date has
// passed.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"recruitdesk/crm-service/internal/crm"
	"recruitdesk/crm-service/internal/events"
)

// Scheduler wraps robfig/cron and manages the reminder sweep.
type Scheduler struct {
	cron *cron.Cron
	svc  *crm.Service
	pub  events.Publisher
	spec string // cron spec, e.g. "@every 15m"
}

// New creates a Scheduler that fires every intervalMinutes minutes.
func New(svc *crm.Service, pub events.Publisher, intervalMinutes int) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		svc:  svc,
		pub:  pub,
		spec: fmt.Sprintf("@every %dm", intervalMinutes),
	}
}

// Start registers the sweep and starts the scheduler. Also runs one sweep
// immediately so overdue callbacks surface without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started, spec: %s", s.spec)

	go s.RunSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// RunSweep publishes EVENT_CALLBACK_DUE for every pending callback whose date
// is at or before now. Publishing is non-fatal; the next sweep retries any
// callback still pending.
func (s *Scheduler) RunSweep(ctx context.Context) {
	due, err := s.svc.DuePendingCallbacks(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("[scheduler] DuePendingCallbacks error: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	log.Printf("[scheduler] %d callback(s) due", len(due))
	for _, cb := range due {
		if err := s.pub.Publish(ctx, events.ChannelCallbackDue, cb); err != nil {
			slog.Warn("publish EVENT_CALLBACK_DUE failed", "callbackId", cb.ID, "err", err)
		}
	}
}
