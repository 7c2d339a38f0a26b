package ports

import (
	"context"
	"time"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

// JugadaFilter carries all query parameters for listing jugadas.
type JugadaFilter struct {
	From       time.Time // optional: fecha_hora >= From
	To         time.Time // optional: fecha_hora <= To
	BancaID    string
	VendedorID string
	SorteoID   string
	Status     domain.JugadaStatus
	Number     *int // optional: numeros contains Number
	Page       Page
}

// JugadaRepository defines persistence operations for jugadas.
type JugadaRepository interface {
	Create(ctx context.Context, j *domain.Jugada) error
	// CreateBatch persists every jugada or none. Implementations re-verify
	// inside their transaction that each referenced banca is still active and
	// fail with domain.ErrBancaInactive otherwise.
	CreateBatch(ctx context.Context, js []*domain.Jugada) error
	FindByID(ctx context.Context, id string) (*domain.Jugada, error)
	List(ctx context.Context, filter JugadaFilter) ([]*domain.Jugada, int64, error)
	// UpdateStatus moves the jugada from one status to another only if it is
	// still in from. When it is not, it returns domain.ErrAlreadyCancelled.
	UpdateStatus(ctx context.Context, id string, from, to domain.JugadaStatus, at time.Time) (*domain.Jugada, error)
}

// ResultadoRepository reads published draw results.
type ResultadoRepository interface {
	// FindByDraw returns domain.ErrResultadoNotFound when no result exists.
	FindByDraw(ctx context.Context, sorteoID string, date time.Time) (*domain.Resultado, error)
}
