package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

const jugadaColumns = `id, banca_id, vendedor_id, sorteo_id, numeros, monto, fecha_hora, estado, premio, created_at, updated_at`

const insertJugada = `
	INSERT INTO jugadas (id, banca_id, vendedor_id, sorteo_id, numeros, monto, fecha_hora, estado, premio, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

type JugadaRepository struct {
	db *sql.DB
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *JugadaRepository) Create(ctx context.Context, j *domain.Jugada) error {
	return insert(ctx, r.db, j)
}

// CreateBatch inserts every jugada in one transaction. The referenced bancas
// are locked FOR SHARE and re-checked first, so a concurrent deactivation
// either waits for the batch or makes it fail as a whole.
func (r *JugadaRepository) CreateBatch(ctx context.Context, js []*domain.Jugada) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch tx: %w", err)
	}
	defer tx.Rollback()

	ids := distinctBancaIDs(js)
	rows, err := tx.QueryContext(ctx, `SELECT id, estado FROM bancas WHERE id = ANY($1) FOR SHARE`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("lock bancas: %w", err)
	}
	active := make(map[string]bool, len(ids))
	for rows.Next() {
		var id string
		var status domain.BancaStatus
		if err := rows.Scan(&id, &status); err != nil {
			rows.Close()
			return fmt.Errorf("scan banca: %w", err)
		}
		active[id] = status == domain.BancaActive
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("lock bancas: %w", err)
	}
	rows.Close()

	for _, id := range ids {
		if !active[id] {
			return domain.ErrBancaInactive
		}
	}

	for _, j := range js {
		if err := insert(ctx, tx, j); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (r *JugadaRepository) FindByID(ctx context.Context, id string) (*domain.Jugada, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jugadaColumns+` FROM jugadas WHERE id = $1`, id)
	j, err := scanJugada(row)
	if err != nil {
		return nil, mapError("find jugada", err, domain.ErrJugadaNotFound, nil)
	}
	return j, nil
}

func (r *JugadaRepository) List(ctx context.Context, f ports.JugadaFilter) ([]*domain.Jugada, int64, error) {
	w := jugadaWhere(f)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM jugadas`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count jugadas", err, nil, nil)
	}

	query, args := paged(`SELECT `+jugadaColumns+` FROM jugadas`+w.String()+` ORDER BY fecha_hora DESC, id`, w.args, f.Page)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError("list jugadas", err, nil, nil)
	}
	defer rows.Close()

	items, err := collect(rows, scanJugada)
	if err != nil {
		return nil, 0, mapError("list jugadas", err, nil, nil)
	}
	return items, total, nil
}

// UpdateStatus is a compare-and-swap on estado. Of two concurrent callers
// only one sees a returned row.
func (r *JugadaRepository) UpdateStatus(ctx context.Context, id string, from, to domain.JugadaStatus, at time.Time) (*domain.Jugada, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE jugadas SET estado = $3, updated_at = $4
		WHERE id = $1 AND estado = $2
		RETURNING `+jugadaColumns,
		id, from, to, at,
	)
	j, err := scanJugada(row)
	if err == nil {
		return j, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update jugada status: %w", err)
	}

	// No row: either the jugada vanished or it is no longer in from.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, domain.ErrAlreadyCancelled
}

func jugadaWhere(f ports.JugadaFilter) *whereBuilder {
	w := &whereBuilder{}
	if !f.From.IsZero() {
		w.add("fecha_hora >= ?", f.From)
	}
	if !f.To.IsZero() {
		w.add("fecha_hora <= ?", f.To)
	}
	if f.BancaID != "" {
		w.add("banca_id = ?", f.BancaID)
	}
	if f.VendedorID != "" {
		w.add("vendedor_id = ?", f.VendedorID)
	}
	if f.SorteoID != "" {
		w.add("sorteo_id = ?", f.SorteoID)
	}
	if f.Status != "" {
		w.add("estado = ?", f.Status)
	}
	if f.Number != nil {
		w.add("numeros @> ARRAY[?]::integer[]", *f.Number)
	}
	return w
}

func insert(ctx context.Context, db execer, j *domain.Jugada) error {
	_, err := db.ExecContext(ctx, insertJugada,
		j.ID, j.BancaID, j.VendedorID, j.SorteoID, toInt64s(j.Numbers), j.Amount,
		j.PlacedAt, j.Status, j.Prize, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		if missing := missingReference(err); missing != nil {
			return fmt.Errorf("insert jugada %s: %w", j.ID, missing)
		}
		return fmt.Errorf("insert jugada: %w", err)
	}
	return nil
}

// Default names Postgres gives the jugadas foreign keys.
const (
	fkJugadaBanca    = "jugadas_banca_id_fkey"
	fkJugadaVendedor = "jugadas_vendedor_id_fkey"
)

// missingReference maps a foreign key violation on jugadas to the state
// error naming the missing row, or returns nil.
func missingReference(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != codeForeignKeyViolation {
		return nil
	}
	switch pqErr.Constraint {
	case fkJugadaVendedor:
		return domain.ErrVendedorNotFoundForJugada
	case fkJugadaBanca:
		return domain.ErrBancaNotFoundForJugada
	}
	if strings.Contains(pqErr.Constraint, "vendedor") {
		return domain.ErrVendedorNotFoundForJugada
	}
	return domain.ErrBancaNotFoundForJugada
}

func scanJugada(s scanner) (*domain.Jugada, error) {
	var j domain.Jugada
	var numbers pq.Int64Array
	err := s.Scan(&j.ID, &j.BancaID, &j.VendedorID, &j.SorteoID, &numbers, &j.Amount,
		&j.PlacedAt, &j.Status, &j.Prize, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.Numbers = toInts(numbers)
	return &j, nil
}

func distinctBancaIDs(js []*domain.Jugada) []string {
	seen := make(map[string]struct{}, len(js))
	out := make([]string, 0, len(js))
	for _, j := range js {
		if _, ok := seen[j.BancaID]; ok {
			continue
		}
		seen[j.BancaID] = struct{}{}
		out = append(out, j.BancaID)
	}
	sort.Strings(out)
	return out
}
