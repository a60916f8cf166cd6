// Package countdown derives live "time remaining" labels from a ticking
// clock signal. Labels are pure functions of (reminder, now); nothing here
// mutates the record.
package countdown

import (
	"context"
	"fmt"
	"time"

	"github.com/callminder/callminder/internal/domain"
)

// DefaultTick is the nominal refresh interval for live countdown views.
const DefaultTick = time.Second

// Label renders the time remaining until a scheduled reminder is due. The
// second result is false for resolved reminders, where a countdown is
// meaningless. All values are floor-truncated to whole units.
func Label(r domain.Reminder, now time.Time) (string, bool) {
	if r.Status != domain.StatusScheduled {
		return "", false
	}

	remaining := r.ScheduledAt.Sub(now)
	if remaining <= 0 {
		return "due now", true
	}

	total := int(remaining / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("in %dh %dm", hours, minutes), true
	case minutes > 0:
		return fmt.Sprintf("in %dm %ds", minutes, seconds), true
	default:
		return fmt.Sprintf("in %ds", seconds), true
	}
}

// Ticks emits the current time at the given interval until ctx is done.
// A non-positive interval selects DefaultTick.
func Ticks(ctx context.Context, interval time.Duration) <-chan time.Time {
	if interval <= 0 {
		interval = DefaultTick
	}

	out := make(chan time.Time, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				select {
				case out <- now:
				default:
				}
			}
		}
	}()
	return out
}
