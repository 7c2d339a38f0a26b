package ports

import (
	"context"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

type BancaFilter struct {
	Status domain.BancaStatus // optional
	Page   Page
}

// BancaRepository defines persistence operations for bancas.
type BancaRepository interface {
	Create(ctx context.Context, b *domain.Banca) error
	FindByID(ctx context.Context, id string) (*domain.Banca, error)
	// List returns a page of bancas ordered by creation time, newest first, and the total count.
	List(ctx context.Context, filter BancaFilter) ([]*domain.Banca, int64, error)
	Update(ctx context.Context, b *domain.Banca) error
}
