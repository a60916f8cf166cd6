// Package listquery derives effective list query parameters from a status
// selector and a debounced free-text input.
package listquery

import (
	"sync"
	"time"

	"github.com/callminder/callminder/internal/domain"
)

// DefaultDebounce is the quiet period applied to free-text changes.
const DefaultDebounce = 300 * time.Millisecond

// Controller coalesces rapid query keystrokes into a single effective
// change. Status selection applies immediately; free text becomes effective
// only after the debounce window elapses without another change. Superseded
// timers are cancelled outright so only the final pending value fires.
type Controller struct {
	mu        sync.Mutex
	debounce  time.Duration
	timer     *time.Timer
	typed     string
	effective domain.ListFilter
	onChange  func(domain.ListFilter)
}

// NewController creates a controller firing onChange whenever the effective
// (status, query) pair changes. A non-positive debounce selects the default.
func NewController(debounce time.Duration, onChange func(domain.ListFilter)) *Controller {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Controller{
		debounce:  debounce,
		effective: domain.ListFilter{Status: domain.StatusFilterAll}.Normalize(),
		onChange:  onChange,
	}
}

// SetStatus changes the status selector, effective immediately. A pending
// query debounce keeps running and will apply on its own schedule.
func (c *Controller) SetStatus(status domain.StatusFilter) {
	c.mu.Lock()
	next := c.effective
	next.Status = status
	changed, effective := c.applyLocked(next)
	c.mu.Unlock()
	c.notify(changed, effective)
}

// SetQuery records a free-text change and restarts the debounce timer.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.typed = query
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.flushQuery)
}

// Flush applies any pending query immediately, cancelling the timer. Used
// by submit-style interactions that should not wait out the quiet period.
func (c *Controller) Flush() {
	c.mu.Lock()
	c.stopTimerLocked()
	next := c.effective
	next.Query = c.typed
	changed, effective := c.applyLocked(next)
	c.mu.Unlock()
	c.notify(changed, effective)
}

// Filter returns the current effective filter.
func (c *Controller) Filter() domain.ListFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.effective
}

// Stop cancels any pending debounce without applying it. Called when the
// consuming view is torn down.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
}

func (c *Controller) flushQuery() {
	c.mu.Lock()
	c.timer = nil
	next := c.effective
	next.Query = c.typed
	changed, effective := c.applyLocked(next)
	c.mu.Unlock()
	c.notify(changed, effective)
}

// applyLocked installs the normalized filter and reports whether it differs
// from the previous effective pair. The callback runs outside the lock.
func (c *Controller) applyLocked(next domain.ListFilter) (bool, domain.ListFilter) {
	next = next.Normalize()
	if next == c.effective {
		return false, next
	}
	c.effective = next
	return true, next
}

func (c *Controller) notify(changed bool, filter domain.ListFilter) {
	if changed && c.onChange != nil {
		c.onChange(filter)
	}
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
