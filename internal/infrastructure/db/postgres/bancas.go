package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

const bancaColumns = `id, nombre, ubicacion, estado, ip_whitelist, created_at, updated_at`

type BancaRepository struct {
	db *sql.DB
}

func (r *BancaRepository) Create(ctx context.Context, b *domain.Banca) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bancas (id, nombre, ubicacion, estado, ip_whitelist, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.Name, b.Location, b.Status, pq.Array(nonNil(b.IPWhitelist)), b.CreatedAt, b.UpdatedAt,
	)
	return mapError("insert banca", err, nil, domain.ErrBancaExists)
}

func (r *BancaRepository) FindByID(ctx context.Context, id string) (*domain.Banca, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bancaColumns+` FROM bancas WHERE id = $1`, id)
	b, err := scanBanca(row)
	if err != nil {
		return nil, mapError("find banca", err, domain.ErrBancaNotFound, nil)
	}
	return b, nil
}

func (r *BancaRepository) List(ctx context.Context, f ports.BancaFilter) ([]*domain.Banca, int64, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add("estado = ?", f.Status)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM bancas`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count bancas", err, nil, nil)
	}

	query, args := paged(`SELECT `+bancaColumns+` FROM bancas`+w.String()+` ORDER BY created_at DESC, id`, w.args, f.Page)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError("list bancas", err, nil, nil)
	}
	defer rows.Close()

	items, err := collect(rows, scanBanca)
	if err != nil {
		return nil, 0, mapError("list bancas", err, nil, nil)
	}
	return items, total, nil
}

func (r *BancaRepository) Update(ctx context.Context, b *domain.Banca) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bancas
		SET nombre = $2, ubicacion = $3, estado = $4, ip_whitelist = $5, updated_at = $6
		WHERE id = $1`,
		b.ID, b.Name, b.Location, b.Status, pq.Array(nonNil(b.IPWhitelist)), b.UpdatedAt,
	)
	if err != nil {
		return mapError("update banca", err, nil, domain.ErrBancaExists)
	}
	return requireRow(res, domain.ErrBancaNotFound)
}

func scanBanca(s scanner) (*domain.Banca, error) {
	var b domain.Banca
	var ips pq.StringArray
	if err := s.Scan(&b.ID, &b.Name, &b.Location, &b.Status, &ips, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.IPWhitelist = []string(ips)
	return &b, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
