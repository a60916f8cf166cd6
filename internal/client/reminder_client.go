package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/callminder/callminder/internal/domain"
)

const maxErrorBodyBytes = 64 << 10

// Client talks HTTP/JSON to the remote reminder service. It implements
// ReminderGateway. Requests rely on the transport's timeout; no per-request
// deadline is imposed beyond the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

var _ ReminderGateway = (*Client)(nil)

func (c *Client) List(ctx context.Context, filter domain.ListFilter) ([]domain.Reminder, error) {
	filter = filter.Normalize()

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = "/reminders"

	q := u.Query()
	if !filter.Status.All() {
		q.Set("status", string(filter.Status))
	}
	if filter.Query != "" {
		q.Set("q", filter.Query)
	}
	u.RawQuery = q.Encode()

	slog.Debug("listing reminders",
		slog.String("url", u.String()),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.normalizeStatus(resp)
	}

	var payloads []reminderPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		slog.Error("failed to decode list response",
			slog.String("error", err.Error()),
		)
		return nil, transportError("malformed response body", err)
	}

	reminders := make([]domain.Reminder, 0, len(payloads))
	for _, p := range payloads {
		r, err := p.toDomain()
		if err != nil {
			return nil, transportError("malformed reminder in response", err)
		}
		reminders = append(reminders, r)
	}

	slog.Debug("listed reminders",
		slog.Int("count", len(reminders)),
	)

	return reminders, nil
}

func (c *Client) Get(ctx context.Context, id string) (*domain.Reminder, error) {
	u, err := c.reminderURL(id)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.normalizeStatus(resp)
	}

	return decodeReminder(resp.Body)
}

func (c *Client) Create(ctx context.Context, in domain.NewReminder) (*domain.Reminder, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = "/reminders"

	body, err := json.Marshal(createRequest{
		Title:       in.Title,
		Message:     in.Message,
		Phone:       in.Phone,
		ScheduledAt: in.ScheduledAt.UTC().Format(time.RFC3339),
		Timezone:    in.Timezone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	slog.Debug("creating reminder",
		slog.String("title", in.Title),
		slog.Time("scheduled_at", in.ScheduledAt),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, c.normalizeStatus(resp)
	}

	return decodeReminder(resp.Body)
}

func (c *Client) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Reminder, error) {
	u, err := c.reminderURL(id)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(patchToRequest(patch))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	slog.Debug("updating reminder",
		slog.String("reminder_id", id),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.normalizeStatus(resp)
	}

	return decodeReminder(resp.Body)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	u, err := c.reminderURL(id)
	if err != nil {
		return err
	}

	slog.Debug("deleting reminder",
		slog.String("reminder_id", id),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// A 204 and a JSON success body are both success.
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return c.normalizeStatus(resp)
	}

	return nil
}

func (c *Client) reminderURL(id string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = "/reminders/" + id
	return u.String(), nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("request to reminder service failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)
		return nil, transportError("reminder service unreachable", err)
	}
	return resp, nil
}

// normalizeStatus converts a non-success response into a RequestError,
// extracting the most specific human-readable message the body offers.
func (c *Client) normalizeStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	message := extractErrorMessage(resp.StatusCode, body)

	slog.Debug("reminder service returned error",
		slog.Int("status_code", resp.StatusCode),
		slog.String("message", message),
	)

	kind := KindServerRejected
	if resp.StatusCode == http.StatusNotFound {
		kind = KindNotFound
	}

	return &RequestError{
		Kind:       kind,
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

func decodeReminder(body io.Reader) (*domain.Reminder, error) {
	var payload reminderPayload
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, transportError("malformed response body", err)
	}
	r, err := payload.toDomain()
	if err != nil {
		return nil, transportError("malformed reminder in response", err)
	}
	return &r, nil
}
