package domain

import (
	"fmt"
	"time"
)

// VendedorStatus is the activation state of a seller.
type VendedorStatus string

const (
	VendedorActive   VendedorStatus = "activo"
	VendedorInactive VendedorStatus = "inactivo"
)

var ErrVendedorNotFound = fmt.Errorf("vendedor %w", ErrNotFound)
var ErrVendedorExists = fmt.Errorf("%w: a vendedor with that cedula already exists", ErrConflict)

// Vendedor is a seller assigned to one or more bancas.
type Vendedor struct {
	ID        string         `json:"id"`
	Name      string         `json:"nombre"`
	Cedula    string         `json:"cedula"`
	Phone     string         `json:"telefono,omitempty"`
	Status    VendedorStatus `json:"estado"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (v *Vendedor) IsActive() bool { return v.Status == VendedorActive }

// VendedorPatch carries the optional fields of a partial update.
type VendedorPatch struct {
	Name   *string
	Cedula *string
	Phone  *string
	Status *VendedorStatus
}

func (p VendedorPatch) Apply(v *Vendedor) {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Cedula != nil {
		v.Cedula = *p.Cedula
	}
	if p.Phone != nil {
		v.Phone = *p.Phone
	}
	if p.Status != nil {
		v.Status = *p.Status
	}
}
