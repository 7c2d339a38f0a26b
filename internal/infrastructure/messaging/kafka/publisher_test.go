package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

type stubWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *stubWriter) Close() error { return nil }

func event() domain.JugadaEvent {
	return domain.JugadaEvent{
		Type:       domain.EventJugadaCreated,
		JugadaID:   "j1",
		BancaID:    "b1",
		VendedorID: "v1",
		SorteoID:   "s1",
		OccurredAt: time.Date(2026, 5, 4, 15, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_Handle_KeysByJugada(t *testing.T) {
	w := &stubWriter{}
	p := &Publisher{writer: w, topic: "jugadas", log: zerolog.Nop()}

	if err := p.Handle(context.Background(), event()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "j1" {
		t.Errorf("expected key j1, got %q", msg.Key)
	}

	var decoded domain.JugadaEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if decoded.Type != domain.EventJugadaCreated || decoded.BancaID != "b1" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != "jugada.created" {
		t.Errorf("unexpected headers: %+v", msg.Headers)
	}
}

func TestPublisher_Handle_WriteError(t *testing.T) {
	writeErr := errors.New("leader not available")
	p := &Publisher{writer: &stubWriter{err: writeErr}, topic: "jugadas", log: zerolog.Nop()}

	if err := p.Handle(context.Background(), event()); !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}
}
