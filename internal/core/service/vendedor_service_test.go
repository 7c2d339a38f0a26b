package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
	"github.com/bancasrd/bancas-api/internal/infrastructure/db/memory"
)

func newVendedorFixture(t *testing.T) (*VendedorService, *BancaService) {
	t.Helper()
	store := memory.NewStore()
	return NewVendedorService(store.Vendedores(), store.Bancas(), discardLogger), NewBancaService(store.Bancas(), discardLogger)
}

func TestVendedorService_Create_DuplicateCedula(t *testing.T) {
	svc, _ := newVendedorFixture(t)

	v, err := svc.Create(context.Background(), ports.CreateVendedorInput{Name: "Juan", Cedula: "001-0000001-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Status != domain.VendedorActive {
		t.Errorf("expected activo, got %q", v.Status)
	}

	_, err = svc.Create(context.Background(), ports.CreateVendedorInput{Name: "Pedro", Cedula: "001-0000001-1"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestVendedorService_Assignments(t *testing.T) {
	svc, bancas := newVendedorFixture(t)
	ctx := context.Background()

	v, _ := svc.Create(ctx, ports.CreateVendedorInput{Name: "Ana", Cedula: "c-1"})
	b1, _ := bancas.Create(ctx, ports.CreateBancaInput{Name: "Uno"})
	b2, _ := bancas.Create(ctx, ports.CreateBancaInput{Name: "Dos"})

	if err := svc.AssignBancas(ctx, v.ID, []string{b1.ID, b2.ID, b1.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	list, err := svc.ListBancas(ctx, v.ID)
	if err != nil {
		t.Fatalf("list bancas: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 bancas, got %d", len(list))
	}

	if err := svc.RemoveBanca(ctx, v.ID, b1.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	list, _ = svc.ListBancas(ctx, v.ID)
	if len(list) != 1 || list[0].ID != b2.ID {
		t.Fatalf("expected only %s, got %+v", b2.ID, list)
	}
}

func TestVendedorService_AssignBancas_UnknownBancaChangesNothing(t *testing.T) {
	svc, bancas := newVendedorFixture(t)
	ctx := context.Background()

	v, _ := svc.Create(ctx, ports.CreateVendedorInput{Name: "Ana", Cedula: "c-1"})
	b1, _ := bancas.Create(ctx, ports.CreateBancaInput{Name: "Uno"})
	_ = svc.AssignBancas(ctx, v.ID, []string{b1.ID})

	err := svc.AssignBancas(ctx, v.ID, []string{"missing"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	list, _ := svc.ListBancas(ctx, v.ID)
	if len(list) != 1 {
		t.Errorf("expected previous assignment kept, got %d", len(list))
	}
}

func TestVendedorService_AssignBancas_UnknownVendedor(t *testing.T) {
	svc, _ := newVendedorFixture(t)
	if err := svc.AssignBancas(context.Background(), "missing", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVendedorService_Update_Deactivate(t *testing.T) {
	svc, _ := newVendedorFixture(t)
	v, _ := svc.Create(context.Background(), ports.CreateVendedorInput{Name: "Ana", Cedula: "c-1"})

	status := domain.VendedorInactive
	updated, err := svc.Update(context.Background(), v.ID, domain.VendedorPatch{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.IsActive() {
		t.Error("expected vendedor inactive")
	}
}
