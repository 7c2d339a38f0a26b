package domain

import (
	"fmt"
	"net/netip"
	"strings"
	"time"
)

// BancaStatus is the activation state of an outlet.
type BancaStatus string

const (
	BancaActive   BancaStatus = "activa"
	BancaInactive BancaStatus = "inactiva"
)

var ErrBancaNotFound = fmt.Errorf("banca %w", ErrNotFound)
var ErrBancaExists = fmt.Errorf("%w: a banca with that name already exists", ErrConflict)

// Banca is a betting outlet.
type Banca struct {
	ID          string      `json:"id"`
	Name        string      `json:"nombre"`
	Location    string      `json:"ubicacion"`
	Status      BancaStatus `json:"estado"`
	IPWhitelist []string    `json:"ip_whitelist"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsActive reports whether jugadas may be registered on the banca.
func (b *Banca) IsActive() bool { return b.Status == BancaActive }

// AllowsIP reports whether ip may operate on the banca. An empty whitelist
// allows every address.
func (b *Banca) AllowsIP(ip string) bool {
	if len(b.IPWhitelist) == 0 {
		return true
	}
	ip = canonicalIP(ip)
	for _, allowed := range b.IPWhitelist {
		if canonicalIP(allowed) == ip {
			return true
		}
	}
	return false
}

// canonicalIP returns the textual form netip gives s, with IPv4-mapped IPv6
// addresses unmapped. Unparseable input is returned trimmed.
func canonicalIP(s string) string {
	s = strings.TrimSpace(s)
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return s
	}
	return addr.Unmap().String()
}

// BancaPatch carries the optional fields of a partial update.
type BancaPatch struct {
	Name        *string
	Location    *string
	Status      *BancaStatus
	IPWhitelist []string
	SetIPs      bool
}

// Apply writes the set fields onto b.
func (p BancaPatch) Apply(b *Banca) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Location != nil {
		b.Location = *p.Location
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.SetIPs {
		b.IPWhitelist = p.IPWhitelist
	}
}
