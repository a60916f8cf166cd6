// Package timecodec converts between (wall-clock string, IANA timezone)
// pairs and absolute UTC instants. All schedule math downstream happens in
// UTC; wall-clock strings exist only on the edit surface.
package timecodec

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// WallClockLayout is the minute-precision edit-surface format.
const WallClockLayout = "2006-01-02T15:04"

var (
	ErrInvalidDateTime = errors.New("invalid date/time")
	ErrNotInFuture     = errors.New("must be in the future")
	ErrUnknownTimezone = errors.New("unknown timezone")
)

// ToLocalWallClock renders an absolute instant as a minute-precision
// wall-clock string in the given IANA timezone.
func ToLocalWallClock(instant time.Time, tz string) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTimezone, tz)
	}
	return instant.In(loc).Format(WallClockLayout), nil
}

// ToAbsoluteInstant parses a wall-clock string in the given timezone into an
// absolute UTC instant. Strings that do not parse, or that name a wall-clock
// moment the timezone skips over (DST gaps), yield ErrInvalidDateTime.
func ToAbsoluteInstant(wallClock, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrUnknownTimezone, tz)
	}
	t, err := time.ParseInLocation(WallClockLayout, wallClock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, wallClock)
	}
	// ParseInLocation normalizes nonexistent moments (e.g. inside a DST
	// spring-forward gap) instead of failing; detect that by re-rendering.
	if t.Format(WallClockLayout) != wallClock {
		return time.Time{}, fmt.Errorf("%w: %q does not exist in %s", ErrInvalidDateTime, wallClock, tz)
	}
	return t.UTC(), nil
}

// AssertFuture rejects instants at or before now: scheduling must have
// positive lead time, equality is not acceptable.
func AssertFuture(instant, now time.Time) error {
	if !instant.After(now) {
		return ErrNotInFuture
	}
	return nil
}

// Resolve returns tz if supplied, otherwise the execution environment's
// local zone name, otherwise "UTC".
func Resolve(tz string) string {
	if trimmed := strings.TrimSpace(tz); trimmed != "" {
		return trimmed
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}
	return "UTC"
}
