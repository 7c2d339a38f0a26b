package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/infrastructure/db/memory"
)

type stubGeo struct {
	country string
	err     error
}

func (g stubGeo) Country(context.Context, string) (string, error) { return g.country, g.err }

func newGuardFixture(t *testing.T, geo stubGeo, cfg GeofenceConfig) *AccessGuard {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	_ = store.Bancas().Create(ctx, &domain.Banca{ID: "open", Name: "Open", Status: domain.BancaActive})
	_ = store.Bancas().Create(ctx, &domain.Banca{ID: "locked", Name: "Locked", Status: domain.BancaActive, IPWhitelist: []string{"10.0.0.5"}})
	return NewAccessGuard(store.Bancas(), geo, cfg, discardLogger)
}

func TestAccessGuard_Whitelist(t *testing.T) {
	guard := newGuardFixture(t, stubGeo{}, GeofenceConfig{})

	cases := []struct {
		name    string
		ip      string
		bancas  []string
		wantErr bool
	}{
		{name: "empty whitelist allows any ip", ip: "8.8.8.8", bancas: []string{"open"}},
		{name: "listed ip", ip: "10.0.0.5", bancas: []string{"locked"}},
		{name: "unlisted ip", ip: "10.0.0.6", bancas: []string{"locked"}, wantErr: true},
		{name: "any banca in batch rejecting", ip: "8.8.8.8", bancas: []string{"open", "locked"}, wantErr: true},
		{name: "unknown banca skipped", ip: "8.8.8.8", bancas: []string{"missing"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := guard.Check(context.Background(), tc.ip, tc.bancas...)
			if tc.wantErr && !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccessGuard_Geofence(t *testing.T) {
	cases := []struct {
		name    string
		geo     stubGeo
		cfg     GeofenceConfig
		wantErr bool
	}{
		{name: "disabled", geo: stubGeo{country: "US"}, cfg: GeofenceConfig{}},
		{name: "matching country", geo: stubGeo{country: "do"}, cfg: GeofenceConfig{Country: "DO", Enforce: true}},
		{name: "mismatch logged only", geo: stubGeo{country: "US"}, cfg: GeofenceConfig{Country: "DO"}},
		{name: "mismatch enforced", geo: stubGeo{country: "US"}, cfg: GeofenceConfig{Country: "DO", Enforce: true}, wantErr: true},
		{name: "unknown country", geo: stubGeo{}, cfg: GeofenceConfig{Country: "DO", Enforce: true}},
		{name: "lookup failure", geo: stubGeo{err: errors.New("timeout")}, cfg: GeofenceConfig{Country: "DO", Enforce: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			guard := newGuardFixture(t, tc.geo, tc.cfg)
			err := guard.Check(context.Background(), "8.8.8.8", "open")
			if tc.wantErr && !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
