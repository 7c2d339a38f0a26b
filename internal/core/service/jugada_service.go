package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

// DefaultCancelGrace is used when no grace period is configured.
const DefaultCancelGrace = 10 * time.Minute

// MaxBatchSize bounds the number of jugadas accepted in one batch.
const MaxBatchSize = 100

// JugadaRepos groups the stores the lifecycle engine reads and writes.
type JugadaRepos struct {
	Jugadas    ports.JugadaRepository
	Bancas     ports.BancaRepository
	Vendedores ports.VendedorRepository
	Resultados ports.ResultadoRepository
}

// JugadaService implements the wager lifecycle: creation preconditions,
// the cancellation window and the result publication lock.
type JugadaService struct {
	repos  JugadaRepos
	events ports.EventPublisher
	grace  time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

func NewJugadaService(repos JugadaRepos, events ports.EventPublisher, grace time.Duration, logger zerolog.Logger) *JugadaService {
	if grace <= 0 {
		grace = DefaultCancelGrace
	}
	return &JugadaService{
		repos:  repos,
		events: events,
		grace:  grace,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// Create registers a single jugada after checking, in order, that the banca
// is active, the vendedor is active and the vendedor works at the banca.
// Nothing is written unless every check passes.
func (s *JugadaService) Create(ctx context.Context, actor *domain.Principal, in ports.CreateJugadaInput) (*domain.Jugada, error) {
	if err := validateJugadaInput(in, ""); err != nil {
		return nil, err
	}
	if err := s.checkBanca(ctx, in.BancaID); err != nil {
		s.logRejected(err, in)
		return nil, err
	}
	if err := s.checkVendedor(ctx, in.VendedorID, in.BancaID); err != nil {
		s.logRejected(err, in)
		return nil, err
	}

	j := s.newJugada(in)
	if err := s.repos.Jugadas.Create(ctx, j); err != nil {
		s.logger.Error().Err(err).Str("banca_id", in.BancaID).Str("vendedor_id", in.VendedorID).Msg("failed to create jugada")
		return nil, fmt.Errorf("create jugada: %w", err)
	}

	s.logger.Info().Str("jugada_id", j.ID).Str("banca_id", j.BancaID).Str("actor_id", actorID(actor)).Msg("jugada created")
	s.publish(domain.EventJugadaCreated, j, actor)
	return j, nil
}

// CreateBatch registers every jugada or none. Each element's banca must be
// active; the repository repeats that check inside its transaction.
func (s *JugadaService) CreateBatch(ctx context.Context, actor *domain.Principal, in []ports.CreateJugadaInput) ([]*domain.Jugada, error) {
	if len(in) == 0 {
		return nil, domain.NewValidationError("jugadas", "jugadas must contain at least one item")
	}
	if len(in) > MaxBatchSize {
		return nil, domain.NewValidationError("jugadas", fmt.Sprintf("jugadas must contain at most %d items", MaxBatchSize))
	}
	for i, item := range in {
		if err := validateJugadaInput(item, fmt.Sprintf("jugadas[%d].", i)); err != nil {
			return nil, err
		}
	}

	checked := make(map[string]error, len(in))
	for i, item := range in {
		err, seen := checked[item.BancaID]
		if !seen {
			err = s.checkBanca(ctx, item.BancaID)
			checked[item.BancaID] = err
		}
		if err != nil {
			var se *domain.StateError
			if errors.As(err, &se) {
				err = se.WithMessage(fmt.Sprintf("jugadas[%d]: %s (%s)", i, se.Message, item.BancaID))
			}
			s.logger.Warn().Err(err).Int("index", i).Str("banca_id", item.BancaID).Msg("batch rejected")
			return nil, err
		}
	}

	js := make([]*domain.Jugada, len(in))
	for i, item := range in {
		js[i] = s.newJugada(item)
	}
	if err := s.repos.Jugadas.CreateBatch(ctx, js); err != nil {
		s.logger.Error().Err(err).Int("count", len(js)).Msg("failed to create jugada batch")
		return nil, fmt.Errorf("create jugada batch: %w", err)
	}

	s.logger.Info().Int("count", len(js)).Str("actor_id", actorID(actor)).Msg("jugada batch created")
	for _, j := range js {
		s.publish(domain.EventJugadaCreated, j, actor)
	}
	return js, nil
}

// Cancel moves a valid jugada to anulada. The checks run in this order:
// existence, current status, grace period, then result publication.
func (s *JugadaService) Cancel(ctx context.Context, actor *domain.Principal, id string) (*domain.Jugada, error) {
	j, err := s.repos.Jugadas.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error().Err(err).Str("jugada_id", id).Msg("failed to load jugada")
		}
		return nil, fmt.Errorf("cancel jugada: %w", err)
	}

	if !j.Status.CanTransitionTo(domain.JugadaCancelled) {
		return nil, s.rejectCancel(j, domain.ErrAlreadyCancelled)
	}

	if elapsed := s.now().Sub(j.PlacedAt); elapsed > s.grace {
		return nil, s.rejectCancel(j, domain.ErrCancelWindowExpired.WithMessage(fmt.Sprintf(
			"cancellation window expired: jugadas can only be cancelled within %d minutes of being placed",
			int(s.grace/time.Minute),
		)))
	}

	res, err := s.repos.Resultados.FindByDraw(ctx, j.SorteoID, j.DrawDate())
	switch {
	case err == nil && res.Published:
		return nil, s.rejectCancel(j, domain.ErrResultPublished)
	case err != nil && !errors.Is(err, domain.ErrResultadoNotFound):
		s.logger.Error().Err(err).Str("jugada_id", id).Str("sorteo_id", j.SorteoID).Msg("failed to load resultado")
		return nil, fmt.Errorf("cancel jugada: load resultado: %w", err)
	}

	updated, err := s.repos.Jugadas.UpdateStatus(ctx, id, domain.JugadaValid, domain.JugadaCancelled, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCancelled) {
			return nil, s.rejectCancel(j, domain.ErrAlreadyCancelled)
		}
		s.logger.Error().Err(err).Str("jugada_id", id).Msg("failed to cancel jugada")
		return nil, fmt.Errorf("cancel jugada: %w", err)
	}

	s.logger.Info().Str("jugada_id", id).Str("actor_id", actorID(actor)).Msg("jugada cancelled")
	s.publish(domain.EventJugadaCancelled, updated, actor)
	return updated, nil
}

func (s *JugadaService) Get(ctx context.Context, id string) (*domain.Jugada, error) {
	j, err := s.repos.Jugadas.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get jugada: %w", err)
	}
	return j, nil
}

func (s *JugadaService) List(ctx context.Context, filter ports.JugadaFilter) (*ports.ListResult[*domain.Jugada], error) {
	filter.Page = filter.Page.Normalize()
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, domain.NewValidationError("fecha_hasta", "fecha_hasta must not be before fecha_desde")
	}

	items, total, err := s.repos.Jugadas.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list jugadas")
		return nil, fmt.Errorf("list jugadas: %w", err)
	}
	return ports.NewListResult(items, total, filter.Page), nil
}

func (s *JugadaService) checkBanca(ctx context.Context, id string) error {
	b, err := s.repos.Bancas.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrBancaNotFoundForJugada
		}
		return fmt.Errorf("load banca: %w", err)
	}
	if !b.IsActive() {
		return domain.ErrBancaInactive
	}
	return nil
}

func (s *JugadaService) checkVendedor(ctx context.Context, vendedorID, bancaID string) error {
	v, err := s.repos.Vendedores.FindByID(ctx, vendedorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrVendedorNotFoundForJugada
		}
		return fmt.Errorf("load vendedor: %w", err)
	}
	if !v.IsActive() {
		return domain.ErrVendedorInactive
	}

	assigned, err := s.repos.Vendedores.IsAssigned(ctx, vendedorID, bancaID)
	if err != nil {
		return fmt.Errorf("load assignment: %w", err)
	}
	if !assigned {
		return domain.ErrVendedorNotAssigned
	}
	return nil
}

func (s *JugadaService) newJugada(in ports.CreateJugadaInput) *domain.Jugada {
	now := s.now()
	numbers := make([]int, len(in.Numbers))
	copy(numbers, in.Numbers)
	return &domain.Jugada{
		ID:         uuid.NewString(),
		BancaID:    in.BancaID,
		VendedorID: in.VendedorID,
		SorteoID:   in.SorteoID,
		Numbers:    numbers,
		Amount:     in.Amount,
		PlacedAt:   now,
		Status:     domain.JugadaValid,
		Prize:      decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *JugadaService) publish(t domain.JugadaEventType, j *domain.Jugada, actor *domain.Principal) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.NewJugadaEvent(t, j, actorID(actor), s.now()))
}

func (s *JugadaService) rejectCancel(j *domain.Jugada, err error) error {
	s.logger.Warn().Err(err).Str("jugada_id", j.ID).Str("estado", string(j.Status)).Msg("cancel rejected")
	return err
}

func (s *JugadaService) logRejected(err error, in ports.CreateJugadaInput) {
	if !errors.Is(err, domain.ErrInvalidState) {
		s.logger.Error().Err(err).Str("banca_id", in.BancaID).Str("vendedor_id", in.VendedorID).Msg("failed to check jugada preconditions")
		return
	}
	s.logger.Warn().Err(err).Str("banca_id", in.BancaID).Str("vendedor_id", in.VendedorID).Msg("jugada rejected")
}

// validateJugadaInput guards callers that bypass the HTTP validator.
func validateJugadaInput(in ports.CreateJugadaInput, prefix string) error {
	var fields []domain.FieldError
	if in.BancaID == "" {
		fields = append(fields, domain.FieldError{Field: prefix + "banca_id", Message: prefix + "banca_id is required"})
	}
	if in.VendedorID == "" {
		fields = append(fields, domain.FieldError{Field: prefix + "vendedor_id", Message: prefix + "vendedor_id is required"})
	}
	if in.SorteoID == "" {
		fields = append(fields, domain.FieldError{Field: prefix + "sorteo_id", Message: prefix + "sorteo_id is required"})
	}
	if len(in.Numbers) == 0 {
		fields = append(fields, domain.FieldError{Field: prefix + "numeros", Message: prefix + "numeros is required"})
	}
	for _, n := range in.Numbers {
		if n < domain.MinNumero || n > domain.MaxNumero {
			fields = append(fields, domain.FieldError{
				Field:   prefix + "numeros",
				Message: fmt.Sprintf("%snumeros must be between %d and %d", prefix, domain.MinNumero, domain.MaxNumero),
			})
			break
		}
	}
	switch {
	case !in.Amount.IsPositive():
		fields = append(fields, domain.FieldError{Field: prefix + "monto", Message: prefix + "monto must be greater than 0"})
	case !in.Amount.Equal(in.Amount.Truncate(domain.MontoDecimals)):
		fields = append(fields, domain.FieldError{
			Field:   prefix + "monto",
			Message: fmt.Sprintf("%smonto must have at most %d decimal places", prefix, domain.MontoDecimals),
		})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func actorID(p *domain.Principal) string {
	if p == nil {
		return ""
	}
	return p.ID
}
