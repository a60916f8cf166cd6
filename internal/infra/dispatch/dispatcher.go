// Package dispatch sweeps due reminders and drives their terminal status.
// Status transitions are owned here, server-side; clients only ever observe
// them.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/callminder/callminder/internal/domain"
)

// Dispatcher periodically picks scheduled reminders whose due instant has
// passed, places the call, and records the outcome: Completed on success,
// Failed with the verbatim error otherwise.
type Dispatcher struct {
	repo   domain.ReminderRepository
	caller Caller
	cron   *cron.Cron
	now    func() time.Time
}

func NewDispatcher(repo domain.ReminderRepository, caller Caller) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		caller: caller,
		now:    time.Now,
	}
}

// Start begins the sweep schedule. Interval must be positive.
func (d *Dispatcher) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("dispatch interval must be positive, got %s", interval)
	}

	d.cron = cron.New()
	_, err := d.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		if _, err := d.RunOnce(ctx); err != nil {
			slog.ErrorContext(ctx, "dispatch sweep failed",
				slog.String("error", err.Error()),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule dispatch sweep: %w", err)
	}

	d.cron.Start()
	slog.Info("dispatcher started",
		slog.Duration("interval", interval),
	)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (d *Dispatcher) Stop() {
	if d.cron != nil {
		<-d.cron.Stop().Done()
	}
}

// RunOnce processes every currently due reminder and returns how many were
// handled.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	now := d.now().UTC()

	due, err := d.repo.ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list due reminders: %w", err)
	}

	processed := 0
	for _, reminder := range due {
		if err := d.caller.PlaceCall(ctx, reminder.Phone, reminder.Message); err != nil {
			reminder.Status = domain.StatusFailed
			reminder.LastError = err.Error()
			slog.WarnContext(ctx, "call failed",
				slog.String("reminder_id", reminder.ID),
				slog.String("error", err.Error()),
			)
		} else {
			reminder.Status = domain.StatusCompleted
			reminder.LastError = ""
		}
		reminder.UpdatedAt = d.now().UTC()

		if err := d.repo.Update(ctx, &reminder); err != nil {
			slog.ErrorContext(ctx, "failed to record call outcome",
				slog.String("reminder_id", reminder.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		processed++
	}

	if processed > 0 {
		slog.InfoContext(ctx, "dispatch sweep finished",
			slog.Int("processed", processed),
		)
	}
	return processed, nil
}
