package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

type recordingRouter struct {
	mu     sync.Mutex
	events []domain.JugadaEvent
	block  chan struct{}
}

func (r *recordingRouter) Process(_ context.Context, ev domain.JugadaEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingRouter) snapshot() []domain.JugadaEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.JugadaEvent(nil), r.events...)
}

func TestDispatcher_DeliversInOrderPerJugada(t *testing.T) {
	router := &recordingRouter{}
	d := NewDispatcher(4, router, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 20; i++ {
		d.Publish(domain.JugadaEvent{Type: domain.EventJugadaCreated, JugadaID: fmt.Sprintf("j%d", i%3), SorteoID: fmt.Sprint(i)})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	got := router.snapshot()
	if len(got) != 20 {
		t.Fatalf("expected 20 events, got %d", len(got))
	}
	last := map[string]int{}
	for _, ev := range got {
		var seq int
		fmt.Sscan(ev.SorteoID, &seq)
		if prev, ok := last[ev.JugadaID]; ok && seq < prev {
			t.Fatalf("events for %s out of order: %d after %d", ev.JugadaID, seq, prev)
		}
		last[ev.JugadaID] = seq
	}
}

func TestDispatcher_PublishNeverBlocks(t *testing.T) {
	router := &recordingRouter{block: make(chan struct{})}
	d := newDispatcher(1, 1, router, zerolog.Nop())
	d.Start(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Publish(domain.JugadaEvent{Type: domain.EventJugadaCreated, JugadaID: "j1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}

	close(router.block)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = d.Stop(ctx)

	if n := len(router.snapshot()); n >= 10 {
		t.Errorf("expected some events to be dropped, got %d delivered", n)
	}
}

func TestDispatcher_PublishAfterStopIsDropped(t *testing.T) {
	router := &recordingRouter{}
	d := NewDispatcher(2, router, zerolog.Nop())
	d.Start(context.Background())
	_ = d.Stop(context.Background())

	d.Publish(domain.JugadaEvent{Type: domain.EventJugadaCreated, JugadaID: "j1"})
	if n := len(router.snapshot()); n != 0 {
		t.Errorf("expected no delivery after stop, got %d", n)
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(8, &recordingRouter{}, zerolog.Nop())
	for _, id := range []string{"a", "jugada-123", ""} {
		first := d.shardIndex(id)
		if first < 0 || first >= 8 {
			t.Fatalf("index %d out of range", first)
		}
		if d.shardIndex(id) != first {
			t.Fatalf("shard index for %q not stable", id)
		}
	}
}
