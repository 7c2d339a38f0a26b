package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

const vendedorColumns = `id, nombre, cedula, telefono, estado, created_at, updated_at`

type VendedorRepository struct {
	db *sql.DB
}

func (r *VendedorRepository) Create(ctx context.Context, v *domain.Vendedor) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vendedores (id, nombre, cedula, telefono, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.ID, v.Name, v.Cedula, v.Phone, v.Status, v.CreatedAt, v.UpdatedAt,
	)
	return mapError("insert vendedor", err, nil, domain.ErrVendedorExists)
}

func (r *VendedorRepository) FindByID(ctx context.Context, id string) (*domain.Vendedor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+vendedorColumns+` FROM vendedores WHERE id = $1`, id)
	v, err := scanVendedor(row)
	if err != nil {
		return nil, mapError("find vendedor", err, domain.ErrVendedorNotFound, nil)
	}
	return v, nil
}

func (r *VendedorRepository) List(ctx context.Context, f ports.VendedorFilter) ([]*domain.Vendedor, int64, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add("estado = ?", f.Status)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM vendedores`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count vendedores", err, nil, nil)
	}

	query, args := paged(`SELECT `+vendedorColumns+` FROM vendedores`+w.String()+` ORDER BY created_at DESC, id`, w.args, f.Page)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError("list vendedores", err, nil, nil)
	}
	defer rows.Close()

	items, err := collect(rows, scanVendedor)
	if err != nil {
		return nil, 0, mapError("list vendedores", err, nil, nil)
	}
	return items, total, nil
}

func (r *VendedorRepository) Update(ctx context.Context, v *domain.Vendedor) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vendedores
		SET nombre = $2, cedula = $3, telefono = $4, estado = $5, updated_at = $6
		WHERE id = $1`,
		v.ID, v.Name, v.Cedula, v.Phone, v.Status, v.UpdatedAt,
	)
	if err != nil {
		return mapError("update vendedor", err, nil, domain.ErrVendedorExists)
	}
	return requireRow(res, domain.ErrVendedorNotFound)
}

// ReplaceAssignments deletes and reinserts the assignment set in one
// transaction. A foreign key violation rolls everything back.
func (r *VendedorRepository) ReplaceAssignments(ctx context.Context, vendedorID string, bancaIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assignments tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vendedor_bancas WHERE vendedor_id = $1`, vendedorID); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}
	for _, bancaID := range bancaIDs {
		_, err := tx.ExecContext(ctx, `INSERT INTO vendedor_bancas (vendedor_id, banca_id) VALUES ($1, $2)`, vendedorID, bancaID)
		if err != nil {
			if pqCode(err) == codeForeignKeyViolation {
				return fmt.Errorf("%w: %s", domain.ErrBancaNotFound, bancaID)
			}
			return fmt.Errorf("insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assignments: %w", err)
	}
	return nil
}

func (r *VendedorRepository) RemoveAssignment(ctx context.Context, vendedorID, bancaID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vendedor_bancas WHERE vendedor_id = $1 AND banca_id = $2`, vendedorID, bancaID)
	return mapError("remove assignment", err, nil, nil)
}

func (r *VendedorRepository) IsAssigned(ctx context.Context, vendedorID, bancaID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM vendedor_bancas WHERE vendedor_id = $1 AND banca_id = $2)`,
		vendedorID, bancaID,
	).Scan(&ok)
	if err != nil {
		return false, mapError("check assignment", err, nil, nil)
	}
	return ok, nil
}

func (r *VendedorRepository) ListBancas(ctx context.Context, vendedorID string) ([]*domain.Banca, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.id, b.nombre, b.ubicacion, b.estado, b.ip_whitelist, b.created_at, b.updated_at
		FROM bancas b
		JOIN vendedor_bancas vb ON vb.banca_id = b.id
		WHERE vb.vendedor_id = $1
		ORDER BY b.created_at DESC, b.id`, vendedorID)
	if err != nil {
		return nil, mapError("list vendedor bancas", err, nil, nil)
	}
	defer rows.Close()

	items, err := collect(rows, scanBanca)
	if err != nil {
		return nil, mapError("list vendedor bancas", err, nil, nil)
	}
	return items, nil
}

func scanVendedor(s scanner) (*domain.Vendedor, error) {
	var v domain.Vendedor
	if err := s.Scan(&v.ID, &v.Name, &v.Cedula, &v.Phone, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}
