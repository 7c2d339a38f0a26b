package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

type BancaService struct {
	repo   ports.BancaRepository
	logger zerolog.Logger
}

func NewBancaService(repo ports.BancaRepository, logger zerolog.Logger) *BancaService {
	return &BancaService{repo: repo, logger: logger}
}

// Create registers a new banca. New bancas start active.
func (s *BancaService) Create(ctx context.Context, in ports.CreateBancaInput) (*domain.Banca, error) {
	now := time.Now().UTC()
	b := &domain.Banca{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Location:    strings.TrimSpace(in.Location),
		Status:      domain.BancaActive,
		IPWhitelist: dedupe(in.IPWhitelist),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Warn().Str("nombre", b.Name).Msg("duplicate banca name")
			return nil, err
		}
		s.logger.Error().Err(err).Str("nombre", b.Name).Msg("failed to create banca")
		return nil, fmt.Errorf("create banca: %w", err)
	}

	s.logger.Info().Str("banca_id", b.ID).Msg("banca created")
	return b, nil
}

func (s *BancaService) Get(ctx context.Context, id string) (*domain.Banca, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get banca: %w", err)
	}
	return b, nil
}

func (s *BancaService) List(ctx context.Context, filter ports.BancaFilter) (*ports.ListResult[*domain.Banca], error) {
	filter.Page = filter.Page.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list bancas")
		return nil, fmt.Errorf("list bancas: %w", err)
	}
	return ports.NewListResult(items, total, filter.Page), nil
}

func (s *BancaService) Update(ctx context.Context, id string, patch domain.BancaPatch) (*domain.Banca, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update banca: %w", err)
	}

	if patch.SetIPs {
		patch.IPWhitelist = dedupe(patch.IPWhitelist)
	}
	patch.Apply(b)
	b.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		if !errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error().Err(err).Str("banca_id", id).Msg("failed to update banca")
		}
		return nil, fmt.Errorf("update banca: %w", err)
	}

	s.logger.Info().Str("banca_id", id).Str("estado", string(b.Status)).Msg("banca updated")
	return b, nil
}

func (s *BancaService) Activate(ctx context.Context, id string) (*domain.Banca, error) {
	status := domain.BancaActive
	return s.Update(ctx, id, domain.BancaPatch{Status: &status})
}

func (s *BancaService) Deactivate(ctx context.Context, id string) (*domain.Banca, error) {
	status := domain.BancaInactive
	return s.Update(ctx, id, domain.BancaPatch{Status: &status})
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
