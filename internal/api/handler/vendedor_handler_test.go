package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

var supervisor = &domain.Principal{ID: "s1", Role: domain.RoleSupervisor, Status: domain.UserActive}

type stubVendedorService struct {
	assigned []string
	removed  string
	patch    *domain.VendedorPatch
	err      error
}

func (s *stubVendedorService) Create(_ context.Context, in ports.CreateVendedorInput) (*domain.Vendedor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Vendedor{ID: "v1", Name: in.Name, Cedula: in.Cedula, Status: domain.VendedorActive}, nil
}

func (s *stubVendedorService) Get(_ context.Context, id string) (*domain.Vendedor, error) {
	return &domain.Vendedor{ID: id}, s.err
}

func (s *stubVendedorService) List(_ context.Context, f ports.VendedorFilter) (*ports.ListResult[*domain.Vendedor], error) {
	return ports.NewListResult[*domain.Vendedor](nil, 0, f.Page), nil
}

func (s *stubVendedorService) Update(_ context.Context, id string, patch domain.VendedorPatch) (*domain.Vendedor, error) {
	s.patch = &patch
	v := &domain.Vendedor{ID: id, Status: domain.VendedorActive}
	patch.Apply(v)
	return v, nil
}

func (s *stubVendedorService) AssignBancas(_ context.Context, _ string, bancaIDs []string) error {
	if s.err != nil {
		return s.err
	}
	s.assigned = bancaIDs
	return nil
}

func (s *stubVendedorService) ListBancas(_ context.Context, _ string) ([]*domain.Banca, error) {
	out := make([]*domain.Banca, 0, len(s.assigned))
	for _, id := range s.assigned {
		out = append(out, &domain.Banca{ID: id})
	}
	return out, nil
}

func (s *stubVendedorService) RemoveBanca(_ context.Context, _, bancaID string) error {
	s.removed = bancaID
	return s.err
}

func TestVendedorHandler_Create_Validation(t *testing.T) {
	h := NewVendedorHandler(&stubVendedorService{})
	c, _ := newContext(http.MethodPost, "/vendedores", `{"telefono":"809-555-0101"}`, supervisor)
	assertValidationFields(t, h.Create(c), "nombre", "cedula")
}

func TestVendedorHandler_Create_DuplicateCedula(t *testing.T) {
	h := NewVendedorHandler(&stubVendedorService{err: domain.ErrVendedorExists})
	c, _ := newContext(http.MethodPost, "/vendedores", `{"nombre":"Luis","cedula":"001-0000001-1"}`, supervisor)
	if err := h.Create(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestVendedorHandler_Update_Status(t *testing.T) {
	stub := &stubVendedorService{}
	h := NewVendedorHandler(stub)

	c, rec := newContext(http.MethodPatch, "/vendedores/v1", `{"estado":"inactivo"}`, supervisor)
	c.SetParamNames("id")
	c.SetParamValues("v1")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.patch.Status == nil || *stub.patch.Status != domain.VendedorInactive || stub.patch.Name != nil {
		t.Fatalf("unexpected patch %+v", stub.patch)
	}
	if decodeData(t, rec)["data"].(map[string]any)["estado"] != "inactivo" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestVendedorHandler_AssignBancas(t *testing.T) {
	stub := &stubVendedorService{}
	h := NewVendedorHandler(stub)

	c, rec := newContext(http.MethodPost, "/vendedores/v1/bancas", `{"banca_ids":["b1","b2"]}`, supervisor)
	c.SetParamNames("id")
	c.SetParamValues("v1")
	if err := h.AssignBancas(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(stub.assigned) != 2 {
		t.Fatalf("expected 2 assignments, got %v", stub.assigned)
	}
	if data := decodeData(t, rec)["data"].([]any); len(data) != 2 {
		t.Fatalf("expected the assigned bancas in the response, got %d", len(data))
	}
}

func TestVendedorHandler_AssignBancas_UnknownBanca(t *testing.T) {
	h := NewVendedorHandler(&stubVendedorService{err: domain.ErrBancaNotFound})

	c, _ := newContext(http.MethodPost, "/vendedores/v1/bancas", `{"banca_ids":["nope"]}`, supervisor)
	if err := h.AssignBancas(c); !errors.Is(err, domain.ErrBancaNotFound) {
		t.Fatalf("expected banca not found, got %v", err)
	}
}

func TestVendedorHandler_RemoveBanca(t *testing.T) {
	stub := &stubVendedorService{}
	h := NewVendedorHandler(stub)

	c, rec := newContext(http.MethodDelete, "/vendedores/v1/bancas/b2", "", supervisor)
	c.SetParamNames("id", "bancaId")
	c.SetParamValues("v1", "b2")
	if err := h.RemoveBanca(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || stub.removed != "b2" {
		t.Fatalf("expected 204 removing b2, got %d %q", rec.Code, stub.removed)
	}
}
