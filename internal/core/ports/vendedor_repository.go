package ports

import (
	"context"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

type VendedorFilter struct {
	Status domain.VendedorStatus // optional
	Page   Page
}

// VendedorRepository defines persistence operations for vendedores and their
// banca assignments.
type VendedorRepository interface {
	Create(ctx context.Context, v *domain.Vendedor) error
	FindByID(ctx context.Context, id string) (*domain.Vendedor, error)
	List(ctx context.Context, filter VendedorFilter) ([]*domain.Vendedor, int64, error)
	Update(ctx context.Context, v *domain.Vendedor) error

	// ReplaceAssignments atomically swaps the vendedor's banca set. Unknown
	// banca ids fail with domain.ErrBancaNotFound and leave the old set intact.
	ReplaceAssignments(ctx context.Context, vendedorID string, bancaIDs []string) error
	RemoveAssignment(ctx context.Context, vendedorID, bancaID string) error
	IsAssigned(ctx context.Context, vendedorID, bancaID string) (bool, error)
	ListBancas(ctx context.Context, vendedorID string) ([]*domain.Banca, error)
}
