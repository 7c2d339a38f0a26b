package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

type CreateBancaInput struct {
	Name        string
	Location    string
	IPWhitelist []string
}

type BancaService interface {
	Create(ctx context.Context, in CreateBancaInput) (*domain.Banca, error)
	Get(ctx context.Context, id string) (*domain.Banca, error)
	List(ctx context.Context, filter BancaFilter) (*ListResult[*domain.Banca], error)
	Update(ctx context.Context, id string, patch domain.BancaPatch) (*domain.Banca, error)
	Activate(ctx context.Context, id string) (*domain.Banca, error)
	Deactivate(ctx context.Context, id string) (*domain.Banca, error)
}

type CreateVendedorInput struct {
	Name   string
	Cedula string
	Phone  string
}

type VendedorService interface {
	Create(ctx context.Context, in CreateVendedorInput) (*domain.Vendedor, error)
	Get(ctx context.Context, id string) (*domain.Vendedor, error)
	List(ctx context.Context, filter VendedorFilter) (*ListResult[*domain.Vendedor], error)
	Update(ctx context.Context, id string, patch domain.VendedorPatch) (*domain.Vendedor, error)
	AssignBancas(ctx context.Context, vendedorID string, bancaIDs []string) error
	ListBancas(ctx context.Context, vendedorID string) ([]*domain.Banca, error)
	RemoveBanca(ctx context.Context, vendedorID, bancaID string) error
}

// CreateJugadaInput is the DTO passed from the transport layer to JugadaService.
type CreateJugadaInput struct {
	BancaID    string
	VendedorID string
	SorteoID   string
	Numbers    []int
	Amount     decimal.Decimal
}

// JugadaService is the wager lifecycle engine.
type JugadaService interface {
	Create(ctx context.Context, actor *domain.Principal, in CreateJugadaInput) (*domain.Jugada, error)
	CreateBatch(ctx context.Context, actor *domain.Principal, in []CreateJugadaInput) ([]*domain.Jugada, error)
	Cancel(ctx context.Context, actor *domain.Principal, id string) (*domain.Jugada, error)
	Get(ctx context.Context, id string) (*domain.Jugada, error)
	List(ctx context.Context, filter JugadaFilter) (*ListResult[*domain.Jugada], error)
}

// AccessGuard enforces per-banca network restrictions on wager intake.
type AccessGuard interface {
	Check(ctx context.Context, clientIP string, bancaIDs ...string) error
}
