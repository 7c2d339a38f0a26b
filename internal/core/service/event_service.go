package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

// EventRouter delivers one lifecycle event to every configured sink.
type EventRouter interface {
	Process(ctx context.Context, event domain.JugadaEvent) error
}

type eventRouter struct {
	sinks []ports.EventSink
	log   zerolog.Logger
}

// NewEventRouter returns an EventRouter over sinks. Nil sinks are skipped.
func NewEventRouter(log zerolog.Logger, sinks ...ports.EventSink) EventRouter {
	kept := make([]ports.EventSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &eventRouter{sinks: kept, log: log}
}

// Process hands the event to each sink in order. A failing sink does not stop
// delivery to the others; all failures are returned joined.
func (r *eventRouter) Process(ctx context.Context, ev domain.JugadaEvent) error {
	if ev.JugadaID == "" || ev.Type == "" {
		return fmt.Errorf("process event: missing jugada id or type")
	}

	var errs []error
	for _, sink := range r.sinks {
		if err := sink.Handle(ctx, ev); err != nil {
			r.log.Warn().Err(err).
				Str("sink", sink.Name()).
				Str("jugada_id", ev.JugadaID).
				Str("type", string(ev.Type)).
				Msg("event sink failed")
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	r.log.Debug().
		Str("jugada_id", ev.JugadaID).
		Str("type", string(ev.Type)).
		Int("sinks", len(r.sinks)).
		Msg("event delivered")
	return nil
}
