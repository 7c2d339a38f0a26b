package memory

import (
	"context"
	"strings"
	"time"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, domain.ErrUserExists
		}
	}
	r.s.users[u.ID] = cloneUser(u)
	return cloneUser(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

type BancaRepository struct{ s *Store }

func (r *BancaRepository) Create(_ context.Context, b *domain.Banca) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(b.Name, b.ID) {
		return domain.ErrBancaExists
	}
	r.s.bancas[b.ID] = cloneBanca(b)
	return nil
}

func (r *BancaRepository) FindByID(_ context.Context, id string) (*domain.Banca, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.bancas[id]
	if !ok {
		return nil, domain.ErrBancaNotFound
	}
	return cloneBanca(b), nil
}

func (r *BancaRepository) List(_ context.Context, f ports.BancaFilter) ([]*domain.Banca, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []*domain.Banca
	for _, b := range r.s.bancas {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		matched = append(matched, cloneBanca(b))
	}
	newestFirst(matched, func(b *domain.Banca) time.Time { return b.CreatedAt }, func(b *domain.Banca) string { return b.ID })
	return paginate(matched, f.Page), int64(len(matched)), nil
}

func (r *BancaRepository) Update(_ context.Context, b *domain.Banca) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bancas[b.ID]; !ok {
		return domain.ErrBancaNotFound
	}
	if r.nameTaken(b.Name, b.ID) {
		return domain.ErrBancaExists
	}
	r.s.bancas[b.ID] = cloneBanca(b)
	return nil
}

// nameTaken must be called with the lock held.
func (r *BancaRepository) nameTaken(name, exceptID string) bool {
	for id, b := range r.s.bancas {
		if id != exceptID && strings.EqualFold(b.Name, name) {
			return true
		}
	}
	return false
}

type VendedorRepository struct{ s *Store }

func (r *VendedorRepository) Create(_ context.Context, v *domain.Vendedor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.cedulaTaken(v.Cedula, v.ID) {
		return domain.ErrVendedorExists
	}
	r.s.vendedores[v.ID] = cloneVendedor(v)
	return nil
}

func (r *VendedorRepository) FindByID(_ context.Context, id string) (*domain.Vendedor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.vendedores[id]
	if !ok {
		return nil, domain.ErrVendedorNotFound
	}
	return cloneVendedor(v), nil
}

func (r *VendedorRepository) List(_ context.Context, f ports.VendedorFilter) ([]*domain.Vendedor, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []*domain.Vendedor
	for _, v := range r.s.vendedores {
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		matched = append(matched, cloneVendedor(v))
	}
	newestFirst(matched, func(v *domain.Vendedor) time.Time { return v.CreatedAt }, func(v *domain.Vendedor) string { return v.ID })
	return paginate(matched, f.Page), int64(len(matched)), nil
}

func (r *VendedorRepository) Update(_ context.Context, v *domain.Vendedor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vendedores[v.ID]; !ok {
		return domain.ErrVendedorNotFound
	}
	if r.cedulaTaken(v.Cedula, v.ID) {
		return domain.ErrVendedorExists
	}
	r.s.vendedores[v.ID] = cloneVendedor(v)
	return nil
}

func (r *VendedorRepository) cedulaTaken(cedula, exceptID string) bool {
	for id, v := range r.s.vendedores {
		if id != exceptID && v.Cedula == cedula {
			return true
		}
	}
	return false
}

func (r *VendedorRepository) ReplaceAssignments(_ context.Context, vendedorID string, bancaIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vendedores[vendedorID]; !ok {
		return domain.ErrVendedorNotFound
	}
	set := make(map[string]struct{}, len(bancaIDs))
	for _, id := range bancaIDs {
		if _, ok := r.s.bancas[id]; !ok {
			return domain.ErrBancaNotFound
		}
		set[id] = struct{}{}
	}
	r.s.assignments[vendedorID] = set
	return nil
}

func (r *VendedorRepository) RemoveAssignment(_ context.Context, vendedorID, bancaID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.assignments[vendedorID], bancaID)
	return nil
}

func (r *VendedorRepository) IsAssigned(_ context.Context, vendedorID, bancaID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.assignments[vendedorID][bancaID]
	return ok, nil
}

func (r *VendedorRepository) ListBancas(_ context.Context, vendedorID string) ([]*domain.Banca, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Banca{}
	for id := range r.s.assignments[vendedorID] {
		if b, ok := r.s.bancas[id]; ok {
			out = append(out, cloneBanca(b))
		}
	}
	newestFirst(out, func(b *domain.Banca) time.Time { return b.CreatedAt }, func(b *domain.Banca) string { return b.ID })
	return out, nil
}

type JugadaRepository struct{ s *Store }

func (r *JugadaRepository) Create(_ context.Context, j *domain.Jugada) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.jugadas[j.ID] = cloneJugada(j)
	return nil
}

func (r *JugadaRepository) CreateBatch(_ context.Context, js []*domain.Jugada) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, j := range js {
		b, ok := r.s.bancas[j.BancaID]
		if !ok || !b.IsActive() {
			return domain.ErrBancaInactive
		}
	}
	for _, j := range js {
		r.s.jugadas[j.ID] = cloneJugada(j)
	}
	return nil
}

func (r *JugadaRepository) FindByID(_ context.Context, id string) (*domain.Jugada, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	j, ok := r.s.jugadas[id]
	if !ok {
		return nil, domain.ErrJugadaNotFound
	}
	return cloneJugada(j), nil
}

func (r *JugadaRepository) List(_ context.Context, f ports.JugadaFilter) ([]*domain.Jugada, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []*domain.Jugada
	for _, j := range r.s.jugadas {
		if !matchJugada(j, f) {
			continue
		}
		matched = append(matched, cloneJugada(j))
	}
	newestFirst(matched, func(j *domain.Jugada) time.Time { return j.PlacedAt }, func(j *domain.Jugada) string { return j.ID })
	return paginate(matched, f.Page), int64(len(matched)), nil
}

func matchJugada(j *domain.Jugada, f ports.JugadaFilter) bool {
	switch {
	case !f.From.IsZero() && j.PlacedAt.Before(f.From):
		return false
	case !f.To.IsZero() && j.PlacedAt.After(f.To):
		return false
	case f.BancaID != "" && j.BancaID != f.BancaID:
		return false
	case f.VendedorID != "" && j.VendedorID != f.VendedorID:
		return false
	case f.SorteoID != "" && j.SorteoID != f.SorteoID:
		return false
	case f.Status != "" && j.Status != f.Status:
		return false
	}
	if f.Number != nil {
		for _, n := range j.Numbers {
			if n == *f.Number {
				return true
			}
		}
		return false
	}
	return true
}

func (r *JugadaRepository) UpdateStatus(_ context.Context, id string, from, to domain.JugadaStatus, at time.Time) (*domain.Jugada, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jugadas[id]
	if !ok {
		return nil, domain.ErrJugadaNotFound
	}
	if j.Status != from {
		return nil, domain.ErrAlreadyCancelled
	}
	j.Status = to
	j.UpdatedAt = at
	return cloneJugada(j), nil
}

type ResultadoRepository struct{ s *Store }

func (r *ResultadoRepository) FindByDraw(_ context.Context, sorteoID string, date time.Time) (*domain.Resultado, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res, ok := r.s.resultados[resultadoKey(sorteoID, date)]
	if !ok {
		return nil, domain.ErrResultadoNotFound
	}
	c := *res
	return &c, nil
}
