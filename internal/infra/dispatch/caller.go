package dispatch

import (
	"context"
	"log/slog"
)

// Caller places the actual phone call for a due reminder.
type Caller interface {
	PlaceCall(ctx context.Context, phone, message string) error
}

// SimulatedCaller logs instead of dialing. Default for local development
// where no telephony credentials are configured.
type SimulatedCaller struct{}

func NewSimulatedCaller() *SimulatedCaller {
	return &SimulatedCaller{}
}

func (s *SimulatedCaller) PlaceCall(ctx context.Context, phone, message string) error {
	slog.InfoContext(ctx, "simulated call placed",
		slog.String("phone", phone),
		slog.Int("message_len", len(message)),
	)
	return nil
}
