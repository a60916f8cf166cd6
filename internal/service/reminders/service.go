package reminders

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/callminder/callminder/internal/client"
	"github.com/callminder/callminder/internal/domain"
	"github.com/callminder/callminder/internal/querycache"
)

const (
	listKeyFamily   = "reminders-list"
	detailKeyPrefix = "reminder-detail:"
)

// Service is the reminder engine facade: reads go through the query cache,
// mutations go to the gateway and invalidate affected keys on success. There
// is no optimistic patching of cached state; the next read observes the
// server-authoritative result.
type Service struct {
	gateway client.ReminderGateway
	cache   *querycache.Store
	now     func() time.Time
}

func NewService(gateway client.ReminderGateway, cache *querycache.Store) *Service {
	return &Service{
		gateway: gateway,
		cache:   cache,
		now:     time.Now,
	}
}

// ListKey is the deterministic cache key for a list query.
func ListKey(filter domain.ListFilter) string {
	filter = filter.Normalize()
	q := url.Values{}
	q.Set("status", string(filter.Status))
	q.Set("q", filter.Query)
	return listKeyFamily + "?" + q.Encode()
}

// DetailKey is the deterministic cache key for a single reminder.
func DetailKey(id string) string {
	return detailKeyPrefix + id
}

// List returns the reminders matching filter, served from cache when the
// entry is fresh. On fetch failure the previous result (if any) is returned
// together with the error.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Reminder, error) {
	filter = filter.Normalize()
	value, err := s.cache.Read(ctx, ListKey(filter), func(ctx context.Context) (any, error) {
		return s.gateway.List(ctx, filter)
	})
	cached, _ := value.([]domain.Reminder)
	return cached, err
}

// RefreshList forces a re-read from the gateway for one list filter. Polling
// views use this; without an in-process mutation nothing else invalidates the
// entry, so server-driven transitions would never surface through List alone.
// The stale-on-error contract still applies: a failed refresh returns the
// previous result alongside the error.
func (s *Service) RefreshList(ctx context.Context, filter domain.ListFilter) ([]domain.Reminder, error) {
	s.cache.Invalidate(ListKey(filter))
	return s.List(ctx, filter)
}

// Get returns one reminder by id, cache-first.
func (s *Service) Get(ctx context.Context, id string) (*domain.Reminder, error) {
	value, err := s.cache.Read(ctx, DetailKey(id), func(ctx context.Context) (any, error) {
		return s.gateway.Get(ctx, id)
	})
	cached, _ := value.(*domain.Reminder)
	return cached, err
}

// Create validates locally, submits to the gateway, and invalidates the list
// family plus the new record's detail entry on success.
func (s *Service) Create(ctx context.Context, in domain.NewReminder) (*domain.Reminder, error) {
	if err := in.Validate(s.now()); err != nil {
		return nil, err
	}

	created, err := s.gateway.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.invalidateAfterMutation(created.ID)

	slog.Info("reminder created",
		slog.String("reminder_id", created.ID),
		slog.Time("scheduled_at", created.ScheduledAt),
	)

	return created, nil
}

// Update validates the supplied fields locally, submits the sparse patch,
// and invalidates affected keys on success.
func (s *Service) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Reminder, error) {
	if patch.Empty() {
		return s.Get(ctx, id)
	}
	if err := patch.Validate(s.now()); err != nil {
		return nil, err
	}

	updated, err := s.gateway.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.invalidateAfterMutation(id)

	slog.Info("reminder updated",
		slog.String("reminder_id", id),
	)

	return updated, nil
}

// Delete removes a reminder. Invalidation only happens when the server
// confirms the mutation; a NotFound leaves the cache untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.gateway.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateAfterMutation(id)

	slog.Info("reminder deleted",
		slog.String("reminder_id", id),
	)

	return nil
}

func (s *Service) invalidateAfterMutation(id string) {
	s.cache.InvalidateFamily(listKeyFamily)
	s.cache.Invalidate(DetailKey(id))
}
