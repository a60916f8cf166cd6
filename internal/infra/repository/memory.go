package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/callminder/callminder/internal/domain"
)

// MemoryRepository is a process-local reminder store. It backs the
// development server when no redis is configured, and doubles as the test
// substitute: everything goes through the repository interface, there is no
// shared global state.
type MemoryRepository struct {
	mu        sync.RWMutex
	reminders map[string]domain.Reminder
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		reminders: make(map[string]domain.Reminder),
	}
}

var _ domain.ReminderRepository = (*MemoryRepository)(nil)

func (r *MemoryRepository) List(_ context.Context, filter domain.ListFilter) ([]domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Reminder, 0, len(r.reminders))
	for _, reminder := range r.reminders {
		if filter.Matches(reminder) {
			out = append(out, reminder)
		}
	}
	sortBySchedule(out)
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reminder, ok := r.reminders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &reminder, nil
}

func (r *MemoryRepository) Create(_ context.Context, reminder *domain.Reminder) error {
	if reminder == nil || reminder.ID == "" {
		return ErrInvalidReminderData
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminders[reminder.ID] = *reminder
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, reminder *domain.Reminder) error {
	if reminder == nil || reminder.ID == "" {
		return ErrInvalidReminderData
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reminders[reminder.ID]; !ok {
		return domain.ErrNotFound
	}
	r.reminders[reminder.ID] = *reminder
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reminders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.reminders, id)
	return nil
}

func (r *MemoryRepository) ListDue(_ context.Context, now time.Time) ([]domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []domain.Reminder
	for _, reminder := range r.reminders {
		if reminder.Due(now) {
			due = append(due, reminder)
		}
	}
	sortBySchedule(due)
	return due, nil
}

func sortBySchedule(reminders []domain.Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].ScheduledAt.Before(reminders[j].ScheduledAt)
	})
}
