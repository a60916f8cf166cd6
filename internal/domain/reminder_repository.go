package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=reminder_repository.go -destination=reminder_repository_mock.go -package=domain

// ReminderRepository is the storage abstraction behind the development
// reminder service. Implementations own filtering and ordering (scheduled
// time ascending) so handlers stay storage-agnostic.
type ReminderRepository interface {
	List(ctx context.Context, filter ListFilter) ([]Reminder, error)
	Get(ctx context.Context, id string) (*Reminder, error)
	Create(ctx context.Context, reminder *Reminder) error
	Update(ctx context.Context, reminder *Reminder) error
	Delete(ctx context.Context, id string) error
	// ListDue returns scheduled reminders whose due instant is at or before
	// now, ordered by scheduled time ascending.
	ListDue(ctx context.Context, now time.Time) ([]Reminder, error)
}
