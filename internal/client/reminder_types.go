package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/callminder/callminder/internal/domain"
)

type reminderPayload struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	Phone       string  `json:"phone"`
	ScheduledAt string  `json:"scheduled_at"`
	Timezone    string  `json:"timezone"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	LastError   *string `json:"last_error"`
}

type createRequest struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	Phone       string `json:"phone"`
	ScheduledAt string `json:"scheduled_at"`
	Timezone    string `json:"timezone"`
}

// updateRequest is the sparse PATCH body: nil pointers are omitted entirely
// so the server can tell "unchanged" from "set to empty". Status and
// last_error are server-write-only and deliberately not representable.
type updateRequest struct {
	Title       *string `json:"title,omitempty"`
	Message     *string `json:"message,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	ScheduledAt *string `json:"scheduled_at,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
}

func patchToRequest(patch domain.Patch) updateRequest {
	req := updateRequest{
		Title:    patch.Title,
		Message:  patch.Message,
		Phone:    patch.Phone,
		Timezone: patch.Timezone,
	}
	if patch.ScheduledAt != nil {
		s := patch.ScheduledAt.UTC().Format(time.RFC3339)
		req.ScheduledAt = &s
	}
	return req
}

func (p reminderPayload) toDomain() (domain.Reminder, error) {
	scheduledAt, err := parseServerTime(p.ScheduledAt)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("scheduled_at: %w", err)
	}
	createdAt, err := parseServerTime(p.CreatedAt)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("created_at: %w", err)
	}
	updatedAt, err := parseServerTime(p.UpdatedAt)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("updated_at: %w", err)
	}

	lastError := ""
	if p.LastError != nil {
		lastError = *p.LastError
	}

	return domain.Reminder{
		ID:          p.ID,
		Title:       p.Title,
		Message:     p.Message,
		Phone:       p.Phone,
		ScheduledAt: scheduledAt,
		Timezone:    p.Timezone,
		Status:      domain.Status(p.Status),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		LastError:   lastError,
	}, nil
}

var utcOffsetSuffix = regexp.MustCompile(`[+-]\d{2}:\d{2}$`)

// parseServerTime parses a server timestamp into a UTC instant. Timestamps
// lacking a Z suffix or explicit offset are treated as UTC, never as local:
// a marker is appended before parsing.
func parseServerTime(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if !strings.HasSuffix(trimmed, "Z") && !utcOffsetSuffix.MatchString(trimmed) {
		trimmed += "Z"
	}
	t, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// errorPayload matches the service's error body: detail is either a plain
// string or a list of {msg} validation objects.
type errorPayload struct {
	Detail json.RawMessage `json:"detail"`
}

func extractErrorMessage(status int, body []byte) string {
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil && detail != "" {
			return detail
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, ", ")
			}
		}
	}
	return http.StatusText(status)
}
