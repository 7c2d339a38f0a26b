package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

// ResultadoRepository reads results written by the draw system.
type ResultadoRepository struct {
	db *sql.DB
}

func (r *ResultadoRepository) FindByDraw(ctx context.Context, sorteoID string, date time.Time) (*domain.Resultado, error) {
	var res domain.Resultado
	err := r.db.QueryRowContext(ctx,
		`SELECT sorteo_id, fecha, publicado FROM resultados WHERE sorteo_id = $1 AND fecha = $2::date`,
		sorteoID, date.UTC().Format(time.DateOnly),
	).Scan(&res.SorteoID, &res.Date, &res.Published)
	if err != nil {
		return nil, mapError("find resultado", err, domain.ErrResultadoNotFound, nil)
	}
	return &res, nil
}
