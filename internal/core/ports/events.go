package ports

import (
	"context"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

// EventPublisher accepts lifecycle events for asynchronous delivery. Publish
// must not block the caller.
type EventPublisher interface {
	Publish(event domain.JugadaEvent)
}

// EventSink is one destination of lifecycle events (audit store, stream).
type EventSink interface {
	Name() string
	Handle(ctx context.Context, event domain.JugadaEvent) error
}

// EventHistory reads back the recorded lifecycle of a jugada, oldest first.
type EventHistory interface {
	History(ctx context.Context, jugadaID string) ([]domain.JugadaEvent, error)
}
