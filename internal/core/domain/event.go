package domain

import "time"

// JugadaEventType names a lifecycle change.
type JugadaEventType string

const (
	EventJugadaCreated   JugadaEventType = "jugada.created"
	EventJugadaCancelled JugadaEventType = "jugada.cancelled"
)

// JugadaEvent records a lifecycle change for the audit trail and downstream consumers.
type JugadaEvent struct {
	Type       JugadaEventType `json:"type"`
	JugadaID   string          `json:"jugada_id"`
	BancaID    string          `json:"banca_id"`
	VendedorID string          `json:"vendedor_id"`
	SorteoID   string          `json:"sorteo_id"`
	ActorID    string          `json:"actor_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewJugadaEvent builds an event for j attributed to actorID.
func NewJugadaEvent(t JugadaEventType, j *Jugada, actorID string, at time.Time) JugadaEvent {
	return JugadaEvent{
		Type:       t,
		JugadaID:   j.ID,
		BancaID:    j.BancaID,
		VendedorID: j.VendedorID,
		SorteoID:   j.SorteoID,
		ActorID:    actorID,
		OccurredAt: at,
	}
}
