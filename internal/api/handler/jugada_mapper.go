package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateJugadaInput(req createJugadaRequest) ports.CreateJugadaInput {
	return ports.CreateJugadaInput{
		BancaID:    req.BancaID,
		VendedorID: req.VendedorID,
		SorteoID:   req.SorteoID,
		Numbers:    req.Numbers,
		Amount:     req.Amount,
	}
}

func toCreateJugadaInputs(reqs []createJugadaRequest) []ports.CreateJugadaInput {
	inputs := make([]ports.CreateJugadaInput, len(reqs))
	for i, req := range reqs {
		inputs[i] = toCreateJugadaInput(req)
	}
	return inputs
}

func bancaIDsOf(reqs []createJugadaRequest) []string {
	ids := make([]string, len(reqs))
	for i, req := range reqs {
		ids[i] = req.BancaID
	}
	return ids
}

// toJugadaFilter parses the list query. Dates accept RFC 3339 or a plain
// date; a plain fecha_hasta covers the whole day.
func toJugadaFilter(q listJugadasQuery) (ports.JugadaFilter, jugadaFilters, error) {
	filter := ports.JugadaFilter{
		BancaID:    q.BancaID,
		VendedorID: q.VendedorID,
		SorteoID:   q.SorteoID,
		Status:     domain.JugadaStatus(q.Status),
		Page:       toPage(q.Page, q.Limit),
	}
	applied := jugadaFilters{
		BancaID:    q.BancaID,
		VendedorID: q.VendedorID,
		SorteoID:   q.SorteoID,
		Status:     q.Status,
	}

	var fields []domain.FieldError
	if q.From != "" {
		from, _, err := parseQueryTime(q.From)
		if err != nil {
			fields = append(fields, domain.FieldError{Field: "fecha_desde", Message: "fecha_desde must be a date (YYYY-MM-DD) or RFC 3339 timestamp"})
		} else {
			filter.From = from
			applied.From = &from
		}
	}
	if q.To != "" {
		to, dateOnly, err := parseQueryTime(q.To)
		if err != nil {
			fields = append(fields, domain.FieldError{Field: "fecha_hasta", Message: "fecha_hasta must be a date (YYYY-MM-DD) or RFC 3339 timestamp"})
		} else {
			if dateOnly {
				to = to.Add(24*time.Hour - time.Nanosecond)
			}
			filter.To = to
			applied.To = &to
		}
	}
	if q.Number != "" {
		n, err := strconv.Atoi(strings.TrimSpace(q.Number))
		if err != nil || n < domain.MinNumero || n > domain.MaxNumero {
			fields = append(fields, domain.FieldError{
				Field:   "numero",
				Message: fmt.Sprintf("numero must be an integer between %d and %d", domain.MinNumero, domain.MaxNumero),
			})
		} else {
			filter.Number = &n
			applied.Number = &n
		}
	}

	if len(fields) > 0 {
		return ports.JugadaFilter{}, jugadaFilters{}, &domain.ValidationError{Fields: fields}
	}
	return filter, applied, nil
}

func parseQueryTime(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	return t.UTC(), false, err
}
