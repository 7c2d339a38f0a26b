package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/service"
	"github.com/bancasrd/bancas-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	sinkTimeout    = 10 * time.Second
)

// Dispatcher routes lifecycle events to a fixed set of workers using
// consistent hashing on the jugada id, so events of one jugada are delivered
// in order.
type Dispatcher struct {
	workers []chan domain.JugadaEvent
	router  service.EventRouter
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, router service.EventRouter, log zerolog.Logger) *Dispatcher {
	return newDispatcher(numWorkers, channelBuffer, router, log)
}

func newDispatcher(numWorkers, buffer int, router service.EventRouter, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.JugadaEvent, numWorkers),
		router:  router,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.JugadaEvent, buffer)
	}
	return d
}

// Start launches the workers. They exit when their channel is closed by Stop
// or when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands the event to the worker owning its jugada. It never blocks:
// when that worker's buffer is full, or after Stop, the event is dropped.
func (d *Dispatcher) Publish(ev domain.JugadaEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.drop(ev, "dispatcher stopped")
		return
	}

	idx := d.shardIndex(ev.JugadaID)
	select {
	case d.workers[idx] <- ev:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(ev, "worker queue full")
	}
}

// Stop closes the queues and waits for workers to drain them, or for ctx.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) drop(ev domain.JugadaEvent, reason string) {
	metrics.EventsDroppedTotal.Inc()
	d.log.Warn().
		Str("jugada_id", ev.JugadaID).
		Str("type", string(ev.Type)).
		Str("reason", reason).
		Msg("lifecycle event dropped")
}

// shardIndex maps a jugada id deterministically to a worker index.
func (d *Dispatcher) shardIndex(jugadaID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(jugadaID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.JugadaEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.process(ctx, id, ev)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, workerID int, ev domain.JugadaEvent) {
	start := time.Now()
	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()

	err := d.router.Process(sinkCtx, ev)
	metrics.EventProcessingDuration.WithLabelValues(string(ev.Type)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EventsErrorsTotal.WithLabelValues(string(ev.Type)).Inc()
		d.log.Error().Err(err).
			Str("jugada_id", ev.JugadaID).
			Int("worker_id", workerID).
			Msg("event processing failed")
		return
	}
	metrics.EventsProcessedTotal.WithLabelValues(string(ev.Type)).Inc()
}
