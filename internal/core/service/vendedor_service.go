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

type VendedorService struct {
	repo   ports.VendedorRepository
	bancas ports.BancaRepository
	logger zerolog.Logger
}

func NewVendedorService(repo ports.VendedorRepository, bancas ports.BancaRepository, logger zerolog.Logger) *VendedorService {
	return &VendedorService{repo: repo, bancas: bancas, logger: logger}
}

func (s *VendedorService) Create(ctx context.Context, in ports.CreateVendedorInput) (*domain.Vendedor, error) {
	now := time.Now().UTC()
	v := &domain.Vendedor{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Cedula:    strings.TrimSpace(in.Cedula),
		Phone:     strings.TrimSpace(in.Phone),
		Status:    domain.VendedorActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Warn().Str("cedula", v.Cedula).Msg("duplicate vendedor cedula")
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create vendedor")
		return nil, fmt.Errorf("create vendedor: %w", err)
	}

	s.logger.Info().Str("vendedor_id", v.ID).Msg("vendedor created")
	return v, nil
}

func (s *VendedorService) Get(ctx context.Context, id string) (*domain.Vendedor, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get vendedor: %w", err)
	}
	return v, nil
}

func (s *VendedorService) List(ctx context.Context, filter ports.VendedorFilter) (*ports.ListResult[*domain.Vendedor], error) {
	filter.Page = filter.Page.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list vendedores")
		return nil, fmt.Errorf("list vendedores: %w", err)
	}
	return ports.NewListResult(items, total, filter.Page), nil
}

func (s *VendedorService) Update(ctx context.Context, id string, patch domain.VendedorPatch) (*domain.Vendedor, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update vendedor: %w", err)
	}

	patch.Apply(v)
	v.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, v); err != nil {
		if !errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error().Err(err).Str("vendedor_id", id).Msg("failed to update vendedor")
		}
		return nil, fmt.Errorf("update vendedor: %w", err)
	}

	s.logger.Info().Str("vendedor_id", id).Msg("vendedor updated")
	return v, nil
}

// AssignBancas replaces the vendedor's assignment set with bancaIDs.
func (s *VendedorService) AssignBancas(ctx context.Context, vendedorID string, bancaIDs []string) error {
	if _, err := s.repo.FindByID(ctx, vendedorID); err != nil {
		return fmt.Errorf("assign bancas: %w", err)
	}

	ids := dedupe(bancaIDs)
	if err := s.repo.ReplaceAssignments(ctx, vendedorID, ids); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error().Err(err).Str("vendedor_id", vendedorID).Strs("banca_ids", ids).Msg("failed to assign bancas")
		}
		return fmt.Errorf("assign bancas: %w", err)
	}

	s.logger.Info().Str("vendedor_id", vendedorID).Strs("banca_ids", ids).Msg("vendedor assigned to bancas")
	return nil
}

func (s *VendedorService) ListBancas(ctx context.Context, vendedorID string) ([]*domain.Banca, error) {
	if _, err := s.repo.FindByID(ctx, vendedorID); err != nil {
		return nil, fmt.Errorf("list vendedor bancas: %w", err)
	}
	bancas, err := s.repo.ListBancas(ctx, vendedorID)
	if err != nil {
		s.logger.Error().Err(err).Str("vendedor_id", vendedorID).Msg("failed to list vendedor bancas")
		return nil, fmt.Errorf("list vendedor bancas: %w", err)
	}
	if bancas == nil {
		bancas = []*domain.Banca{}
	}
	return bancas, nil
}

func (s *VendedorService) RemoveBanca(ctx context.Context, vendedorID, bancaID string) error {
	if err := s.repo.RemoveAssignment(ctx, vendedorID, bancaID); err != nil {
		s.logger.Error().Err(err).Str("vendedor_id", vendedorID).Str("banca_id", bancaID).Msg("failed to remove vendedor from banca")
		return fmt.Errorf("remove banca: %w", err)
	}
	s.logger.Info().Str("vendedor_id", vendedorID).Str("banca_id", bancaID).Msg("vendedor removed from banca")
	return nil
}
