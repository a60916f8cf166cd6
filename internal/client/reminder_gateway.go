package client

import (
	"context"

	"github.com/callminder/callminder/internal/domain"
)

//go:generate mockgen -source=reminder_gateway.go -destination=reminder_gateway_mock.go -package=client

// ReminderGateway maps reminder operations onto the remote reminder service.
// All methods are context-aware and return normalized errors (see
// RequestError); NotFound satisfies errors.Is(err, domain.ErrNotFound).
type ReminderGateway interface {
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Reminder, error)
	Get(ctx context.Context, id string) (*domain.Reminder, error)
	Create(ctx context.Context, in domain.NewReminder) (*domain.Reminder, error)
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.Reminder, error)
	Delete(ctx context.Context, id string) error
}
