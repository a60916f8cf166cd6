package listquery

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callminder/callminder/internal/domain"
)

// recorder collects filter change notifications.
type recorder struct {
	mu      sync.Mutex
	changes []domain.ListFilter
}

func (r *recorder) record(f domain.ListFilter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, f)
}

func (r *recorder) snapshot() []domain.ListFilter {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ListFilter, len(r.changes))
	copy(out, r.changes)
	return out
}

func (r *recorder) waitFor(t *testing.T, n int) []domain.ListFilter {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := r.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d changes, got %d", n, len(r.snapshot()))
	return nil
}

func TestRapidTypingCoalescesToOneChange(t *testing.T) {
	rec := &recorder{}
	c := NewController(30*time.Millisecond, rec.record)
	defer c.Stop()

	c.SetQuery("r")
	c.SetQuery("re")
	c.SetQuery("rent")

	changes := rec.waitFor(t, 1)
	require.Len(t, changes, 1, "intermediate keystrokes must not fire")
	assert.Equal(t, "rent", changes[0].Query)
	assert.Equal(t, domain.StatusFilterAll, changes[0].Status)

	// Quiet period over, nothing else arrives.
	time.Sleep(60 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1)
}

func TestStatusAppliesImmediately(t *testing.T) {
	rec := &recorder{}
	c := NewController(time.Hour, rec.record)
	defer c.Stop()

	c.SetStatus("Failed")

	changes := rec.snapshot()
	require.Len(t, changes, 1)
	assert.Equal(t, domain.StatusFilter("Failed"), changes[0].Status)
	assert.Equal(t, domain.StatusFilter("Failed"), c.Filter().Status)
}

func TestFlushAppliesPendingQueryImmediately(t *testing.T) {
	rec := &recorder{}
	c := NewController(time.Hour, rec.record)
	defer c.Stop()

	c.SetQuery("rent")
	assert.Empty(t, rec.snapshot(), "debounce still pending")

	c.Flush()

	changes := rec.snapshot()
	require.Len(t, changes, 1)
	assert.Equal(t, "rent", changes[0].Query)

	// The cancelled timer must not fire a duplicate later.
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1)
}

func TestIdenticalEffectivePairDoesNotRefire(t *testing.T) {
	rec := &recorder{}
	c := NewController(10*time.Millisecond, rec.record)
	defer c.Stop()

	c.SetQuery("rent")
	rec.waitFor(t, 1)

	// Same text again, and a whitespace variant that normalizes to it.
	c.SetQuery("rent")
	c.Flush()
	c.SetQuery("  rent  ")
	c.Flush()
	c.SetStatus(domain.StatusFilterAll)

	time.Sleep(30 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1)
}

func TestStopCancelsPendingQuery(t *testing.T) {
	rec := &recorder{}
	c := NewController(10*time.Millisecond, rec.record)

	c.SetQuery("rent")
	c.Stop()

	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
	assert.Empty(t, c.Filter().Query)
}

func TestDefaultDebounceApplied(t *testing.T) {
	c := NewController(0, nil)
	defer c.Stop()
	assert.Equal(t, DefaultDebounce, c.debounce)
}

func TestNilCallbackIsSafe(t *testing.T) {
	c := NewController(5*time.Millisecond, nil)
	defer c.Stop()

	c.SetStatus("Scheduled")
	c.SetQuery("rent")
	c.Flush()

	got := c.Filter()
	assert.Equal(t, domain.StatusFilter("Scheduled"), got.Status)
	assert.Equal(t, "rent", got.Query)
}
