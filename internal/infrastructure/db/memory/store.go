// Package memory is an in-process implementation of every repository port.
// It backs the test suites and STORE_DRIVER=memory for local runs. All
// mutations happen under one lock, which gives the same all-or-nothing batch
// and compare-and-swap status semantics as the Postgres store.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

type Store struct {
	mu          sync.RWMutex
	users       map[string]*domain.User
	bancas      map[string]*domain.Banca
	vendedores  map[string]*domain.Vendedor
	assignments map[string]map[string]struct{} // vendedor id -> banca ids
	jugadas     map[string]*domain.Jugada
	resultados  map[string]*domain.Resultado
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]*domain.User),
		bancas:      make(map[string]*domain.Banca),
		vendedores:  make(map[string]*domain.Vendedor),
		assignments: make(map[string]map[string]struct{}),
		jugadas:     make(map[string]*domain.Jugada),
		resultados:  make(map[string]*domain.Resultado),
	}
}

func (s *Store) Users() *UserRepository           { return &UserRepository{s: s} }
func (s *Store) Bancas() *BancaRepository         { return &BancaRepository{s: s} }
func (s *Store) Vendedores() *VendedorRepository  { return &VendedorRepository{s: s} }
func (s *Store) Jugadas() *JugadaRepository       { return &JugadaRepository{s: s} }
func (s *Store) Resultados() *ResultadoRepository { return &ResultadoRepository{s: s} }

// PutResultado records a draw result. Results are owned by another system;
// this exists for seeding.
func (s *Store) PutResultado(r domain.Resultado) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Date = dateOnly(r.Date)
	s.resultados[resultadoKey(r.SorteoID, r.Date)] = &r
}

func resultadoKey(sorteoID string, date time.Time) string {
	return sorteoID + "|" + dateOnly(date).Format(time.DateOnly)
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// paginate slices items for a 1-based page.
func paginate[T any](items []T, p ports.Page) []T {
	p = p.Normalize()
	skip := p.Offset()
	if skip >= len(items) {
		return []T{}
	}
	end := skip + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

// newestFirst orders by t descending, then id for a stable order.
func newestFirst[T any](items []T, t func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := t(items[i]), t(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return id(items[i]) < id(items[j])
	})
}

func cloneBanca(b *domain.Banca) *domain.Banca {
	c := *b
	c.IPWhitelist = append([]string(nil), b.IPWhitelist...)
	return &c
}

func cloneVendedor(v *domain.Vendedor) *domain.Vendedor {
	c := *v
	return &c
}

func cloneJugada(j *domain.Jugada) *domain.Jugada {
	c := *j
	c.Numbers = append([]int(nil), j.Numbers...)
	return &c
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}
