package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

// AuditLog keeps lifecycle events in process. It stands in for the Mongo
// audit trail when MONGO_URI is unset.
type AuditLog struct {
	mu     sync.RWMutex
	events map[string][]domain.JugadaEvent
}

func NewAuditLog() *AuditLog {
	return &AuditLog{events: make(map[string][]domain.JugadaEvent)}
}

func (a *AuditLog) Name() string { return "memory_audit" }

func (a *AuditLog) Handle(_ context.Context, ev domain.JugadaEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events[ev.JugadaID] = append(a.events[ev.JugadaID], ev)
	return nil
}

func (a *AuditLog) History(_ context.Context, jugadaID string) ([]domain.JugadaEvent, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := append([]domain.JugadaEvent{}, a.events[jugadaID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}
