package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

func TestJugadaWhere(t *testing.T) {
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	seven := 7

	w := jugadaWhere(ports.JugadaFilter{
		From:    from,
		BancaID: "b1",
		Status:  domain.JugadaValid,
		Number:  &seven,
	})

	wantSQL := " WHERE fecha_hora >= $1 AND banca_id = $2 AND estado = $3 AND numeros @> ARRAY[$4]::integer[]"
	if got := w.String(); got != wantSQL {
		t.Errorf("unexpected where clause:\n got %q\nwant %q", got, wantSQL)
	}
	wantArgs := []any{from, "b1", domain.JugadaValid, 7}
	if !reflect.DeepEqual(w.args, wantArgs) {
		t.Errorf("unexpected args: %#v", w.args)
	}
}

func TestJugadaWhere_Empty(t *testing.T) {
	if got := jugadaWhere(ports.JugadaFilter{}).String(); got != "" {
		t.Errorf("expected no where clause, got %q", got)
	}
}

func TestPaged(t *testing.T) {
	query, args := paged("SELECT 1 FROM jugadas WHERE estado = $1", []any{"valida"}, ports.Page{Page: 3, Limit: 20})
	if query != "SELECT 1 FROM jugadas WHERE estado = $1 LIMIT $2 OFFSET $3" {
		t.Errorf("unexpected query %q", query)
	}
	if !reflect.DeepEqual(args, []any{"valida", 20, 40}) {
		t.Errorf("unexpected args %#v", args)
	}
}

func TestPaged_ClampsLimit(t *testing.T) {
	_, args := paged("SELECT 1", nil, ports.Page{Page: 0, Limit: 500})
	if !reflect.DeepEqual(args, []any{ports.MaxLimit, 0}) {
		t.Errorf("unexpected args %#v", args)
	}
}

func TestPaged_HugePageKeepsOffsetPositive(t *testing.T) {
	_, args := paged("SELECT 1", nil, ports.Page{Page: math.MaxInt, Limit: 20})
	if off := args[1].(int); off != (ports.MaxPage-1)*20 {
		t.Errorf("unexpected offset %d", off)
	}
}

func TestMapError(t *testing.T) {
	conflict := &pq.Error{Code: codeUniqueViolation}
	other := errors.New("connection reset")

	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: domain.ErrBancaNotFound},
		{name: "unique violation", err: conflict, want: domain.ErrBancaExists},
		{name: "wrapped unique violation", err: fmt.Errorf("exec: %w", conflict), want: domain.ErrBancaExists},
		{name: "other", err: other, want: other},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapError("op", tc.err, domain.ErrBancaNotFound, domain.ErrBancaExists)
			if !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	if mapError("op", nil, nil, nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestMissingReference(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"vendedor fk", &pq.Error{Code: codeForeignKeyViolation, Constraint: fkJugadaVendedor}, domain.ErrVendedorNotFoundForJugada},
		{"banca fk", &pq.Error{Code: codeForeignKeyViolation, Constraint: fkJugadaBanca}, domain.ErrBancaNotFoundForJugada},
		{"wrapped vendedor fk", fmt.Errorf("exec: %w", &pq.Error{Code: codeForeignKeyViolation, Constraint: fkJugadaVendedor}), domain.ErrVendedorNotFoundForJugada},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := missingReference(tc.err); !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	if missingReference(&pq.Error{Code: codeUniqueViolation}) != nil {
		t.Error("unique violation is not a missing reference")
	}
	if missingReference(errors.New("connection reset")) != nil {
		t.Error("driver errors are not missing references")
	}
}

func TestDistinctBancaIDs(t *testing.T) {
	got := distinctBancaIDs([]*domain.Jugada{{BancaID: "b2"}, {BancaID: "b1"}, {BancaID: "b2"}})
	if !reflect.DeepEqual(got, []string{"b1", "b2"}) {
		t.Errorf("unexpected ids %v", got)
	}
}

func TestNumbersConversion(t *testing.T) {
	in := []int{0, 7, 99}
	if got := toInts(toInt64s(in)); !reflect.DeepEqual(got, in) {
		t.Errorf("unexpected numbers %v", got)
	}
}
