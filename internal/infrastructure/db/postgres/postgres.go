// Package postgres implements the repository ports on PostgreSQL through
// database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const defaultTimeout = 5 * time.Second

//go:embed schema.sql
var schema string

// Postgres error codes this package reacts to.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type Config struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	Timeout      time.Duration
}

// Connect opens a pool and pings it.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates missing tables and indexes. Every statement is idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Store groups the repositories sharing one pool.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Users() *UserRepository           { return &UserRepository{db: s.db} }
func (s *Store) Bancas() *BancaRepository         { return &BancaRepository{db: s.db} }
func (s *Store) Vendedores() *VendedorRepository  { return &VendedorRepository{db: s.db} }
func (s *Store) Jugadas() *JugadaRepository       { return &JugadaRepository{db: s.db} }
func (s *Store) Resultados() *ResultadoRepository { return &ResultadoRepository{db: s.db} }

// pqCode returns the SQLSTATE of a lib/pq error, or "".
func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// mapError turns driver errors into domain sentinels: no rows into notFound,
// unique violations into conflict. Anything else is wrapped with op.
func mapError(op string, err error, notFound, conflict error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows) && notFound != nil:
		return notFound
	case pqCode(err) == codeUniqueViolation && conflict != nil:
		return conflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func toInt64s(in []int) pq.Int64Array {
	out := make(pq.Int64Array, len(in))
	for i, n := range in {
		out[i] = int64(n)
	}
	return out
}

func toInts(in pq.Int64Array) []int {
	out := make([]int, len(in))
	for i, n := range in {
		out[i] = int(n)
	}
	return out
}
