package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/bancasrd/bancas-api/internal/core/ports"
)

// whereBuilder accumulates AND conditions with numbered placeholders.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends cond, replacing each "?" with the next placeholder.
func (w *whereBuilder) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// paged appends LIMIT and OFFSET placeholders for p.
func paged(query string, args []any, p ports.Page) (string, []any) {
	p = p.Normalize()
	args = append(args, p.Limit, p.Offset())
	return fmt.Sprintf("%s LIMIT $%d OFFSET $%d", query, len(args)-1, len(args)), args
}

func collect[T any](rows *sql.Rows, scan func(scanner) (T, error)) ([]T, error) {
	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// requireRow returns notFound when res touched no row.
func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
