package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callminder/callminder/internal/domain"
	"github.com/callminder/callminder/internal/infra/repository"
	"github.com/callminder/callminder/internal/service/countdown"
	"github.com/callminder/callminder/internal/timecodec"
)

func newTestRouter(now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewReminderHandler(repository.NewMemoryRepository())
	h.now = func() time.Time { return now }

	router := gin.New()
	h.Register(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateAndGetReminder(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	router := newTestRouter(now)

	w := doJSON(t, router, http.MethodPost, "/reminders", gin.H{
		"title":        "Pay rent",
		"message":      "Pay the rent today.",
		"phone":        "+14155552671",
		"scheduled_at": now.Add(10 * time.Minute).Format(time.RFC3339),
		"timezone":     "Africa/Addis_Ababa",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decodeBody[reminderResponse](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Scheduled", created.Status)
	assert.Nil(t, created.LastError)

	w = doJSON(t, router, http.MethodGet, "/reminders/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[reminderResponse](t, w)
	assert.Equal(t, created, got)
}

func TestCreateValidationFailures(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(10 * time.Minute).Format(time.RFC3339)

	tests := []struct {
		name string
		body gin.H
	}{
		{
			name: "past schedule",
			body: gin.H{
				"title": "Pay rent", "message": "m", "phone": "+14155552671",
				"scheduled_at": now.Add(-time.Minute).Format(time.RFC3339), "timezone": "UTC",
			},
		},
		{
			name: "schedule equal to now",
			body: gin.H{
				"title": "Pay rent", "message": "m", "phone": "+14155552671",
				"scheduled_at": now.Format(time.RFC3339), "timezone": "UTC",
			},
		},
		{
			name: "invalid phone",
			body: gin.H{
				"title": "Pay rent", "message": "m", "phone": "12345",
				"scheduled_at": future, "timezone": "UTC",
			},
		},
		{
			name: "title too short",
			body: gin.H{
				"title": "P", "message": "m", "phone": "+14155552671",
				"scheduled_at": future, "timezone": "UTC",
			},
		},
		{
			name: "unknown timezone",
			body: gin.H{
				"title": "Pay rent", "message": "m", "phone": "+14155552671",
				"scheduled_at": future, "timezone": "Not/AZone",
			},
		},
		{
			name: "garbage timestamp",
			body: gin.H{
				"title": "Pay rent", "message": "m", "phone": "+14155552671",
				"scheduled_at": "tomorrow-ish", "timezone": "UTC",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(now)
			w := doJSON(t, router, http.MethodPost, "/reminders", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			detail := decodeBody[map[string]any](t, w)
			assert.Contains(t, detail, "detail")
		})
	}
}

func TestListFilters(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	router := newTestRouter(now)

	create := func(title string) string {
		w := doJSON(t, router, http.MethodPost, "/reminders", gin.H{
			"title":        title,
			"message":      "Message for " + title,
			"phone":        "+14155552671",
			"scheduled_at": now.Add(time.Hour).Format(time.RFC3339),
			"timezone":     "UTC",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		return decodeBody[reminderResponse](t, w).ID
	}

	rentID := create("Pay rent")
	create("Call dentist")

	// Mark one failed through the dispatcher's write surface.
	w := doJSON(t, router, http.MethodPatch, "/reminders/"+rentID, gin.H{
		"status":     "Failed",
		"last_error": "line busy",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/reminders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]reminderResponse](t, w), 2)

	w = doJSON(t, router, http.MethodGet, "/reminders?status=Failed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	failed := decodeBody[[]reminderResponse](t, w)
	require.Len(t, failed, 1)
	assert.Equal(t, rentID, failed[0].ID)
	require.NotNil(t, failed[0].LastError)
	assert.Equal(t, "line busy", *failed[0].LastError)

	w = doJSON(t, router, http.MethodGet, "/reminders?q=dentist", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]reminderResponse](t, w), 1)

	w = doJSON(t, router, http.MethodGet, "/reminders?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchReschedulePutsReminderBackInFlight(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	router := newTestRouter(now)

	w := doJSON(t, router, http.MethodPost, "/reminders", gin.H{
		"title":        "Pay rent",
		"message":      "Pay the rent today.",
		"phone":        "+14155552671",
		"scheduled_at": now.Add(time.Hour).Format(time.RFC3339),
		"timezone":     "UTC",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody[reminderResponse](t, w).ID

	w = doJSON(t, router, http.MethodPatch, "/reminders/"+id, gin.H{
		"status":     "Failed",
		"last_error": "line busy",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/reminders/"+id, gin.H{
		"scheduled_at": now.Add(2 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decodeBody[reminderResponse](t, w)
	assert.Equal(t, "Scheduled", updated.Status)
	assert.Nil(t, updated.LastError)
}

func TestPatchValidation(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	router := newTestRouter(now)

	w := doJSON(t, router, http.MethodPost, "/reminders", gin.H{
		"title":        "Pay rent",
		"message":      "Pay the rent today.",
		"phone":        "+14155552671",
		"scheduled_at": now.Add(time.Hour).Format(time.RFC3339),
		"timezone":     "UTC",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody[reminderResponse](t, w).ID

	w = doJSON(t, router, http.MethodPatch, "/reminders/"+id, gin.H{"phone": "12345"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/reminders/"+id, gin.H{"status": "Snoozed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/reminders/"+id, gin.H{
		"scheduled_at": now.Add(-time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Untouched fields survive a failed patch.
	w = doJSON(t, router, http.MethodGet, "/reminders/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "+14155552671", decodeBody[reminderResponse](t, w).Phone)
}

func TestNotFoundResponses(t *testing.T) {
	router := newTestRouter(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	for _, tc := range []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/reminders/missing", nil},
		{http.MethodPatch, "/reminders/missing", gin.H{"title": "New title"}},
		{http.MethodDelete, "/reminders/missing", nil},
	} {
		w := doJSON(t, router, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)

		detail := decodeBody[map[string]string](t, w)
		assert.Equal(t, "Reminder not found", detail["detail"])
	}
}

func TestDeleteReminder(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	router := newTestRouter(now)

	w := doJSON(t, router, http.MethodPost, "/reminders", gin.H{
		"title":        "Pay rent",
		"message":      "Pay the rent today.",
		"phone":        "+14155552671",
		"scheduled_at": now.Add(time.Hour).Format(time.RFC3339),
		"timezone":     "UTC",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody[reminderResponse](t, w).ID

	w = doJSON(t, router, http.MethodDelete, "/reminders/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/reminders/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// End to end through the wall-clock codec: a reminder typed as a local time
// ten minutes out lands as the right UTC instant and counts down correctly.
func TestScheduleFlowFromLocalWallClock(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 30, 0, time.UTC)
	router := newTestRouter(now)

	tz := "Africa/Addis_Ababa"
	wall, err := timecodec.ToLocalWallClock(now.Add(10*time.Minute), tz)
	require.NoError(t, err)

	instant, err := timecodec.ToAbsoluteInstant(wall, tz)
	require.NoError(t, err)
	require.NoError(t, timecodec.AssertFuture(instant, now))

	w := doJSON(t, router, http.MethodPost, "/reminders", gin.H{
		"title":        "Pay rent",
		"message":      "Pay the rent today.",
		"phone":        "+14155552671",
		"scheduled_at": instant.Format(time.RFC3339),
		"timezone":     tz,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[reminderResponse](t, w)

	scheduledAt, err := time.Parse(time.RFC3339, created.ScheduledAt)
	require.NoError(t, err)

	// The wall-clock layout drops seconds, so the stored instant is within a
	// minute of now+10m.
	diff := scheduledAt.Sub(now.Add(10 * time.Minute))
	if diff < 0 {
		diff = -diff
	}
	assert.LessOrEqual(t, diff, time.Minute)

	w = doJSON(t, router, http.MethodGet, "/reminders/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decodeBody[reminderResponse](t, w)

	fetchedAt, err := time.Parse(time.RFC3339, fetched.ScheduledAt)
	require.NoError(t, err)

	label, ok := countdown.Label(domain.Reminder{
		Status:      domain.Status(fetched.Status),
		ScheduledAt: fetchedAt,
	}, now)
	require.True(t, ok)
	remaining := int(fetchedAt.Sub(now) / time.Second)
	assert.Equal(t, fmt.Sprintf("in %dm %ds", remaining/60, remaining%60), label)
}
