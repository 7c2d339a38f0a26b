package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/infrastructure/db/memory"
)

func newIdentityFixture(t *testing.T) (*IdentityService, *stubProvider, *stubRevoker) {
	t.Helper()
	users := memory.NewStore().Users()
	ctx := context.Background()
	for _, u := range []*domain.User{
		{ID: "u-admin", Email: "admin@example.com", Role: domain.RoleAdmin, Status: domain.UserActive},
		{ID: "u-off", Email: "off@example.com", Role: domain.RoleSupervisor, Status: domain.UserInactive},
	} {
		if _, err := users.Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	provider := &stubProvider{expiresAt: time.Now().Add(time.Hour)}
	revoker := newStubRevoker()
	return NewIdentityService(provider, revoker, users, discardLogger), provider, revoker
}

func TestIdentityService_Resolve_ActiveUser(t *testing.T) {
	svc, _, _ := newIdentityFixture(t)

	p, err := svc.Resolve(context.Background(), "tok-u-admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "u-admin" || p.Role != domain.RoleAdmin {
		t.Errorf("unexpected principal %+v", p)
	}
}

func TestIdentityService_Resolve_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		token string
		setup func(p *stubProvider, r *stubRevoker)
		want  error
	}{
		{name: "empty token", token: "", want: domain.ErrUnauthenticated},
		{name: "provider rejects", token: "garbage", want: domain.ErrUnauthenticated},
		{name: "unknown subject", token: "tok-ghost", want: domain.ErrUnauthenticated},
		{name: "inactive user", token: "tok-u-off", want: domain.ErrUserInactive},
		{
			name:  "revoked token",
			token: "tok-u-admin",
			setup: func(_ *stubProvider, r *stubRevoker) { r.revoked["jti-u-admin"] = time.Now().Add(time.Hour) },
			want:  domain.ErrUnauthenticated,
		},
		{
			name:  "revocation store down",
			token: "tok-u-admin",
			setup: func(_ *stubProvider, r *stubRevoker) { r.err = errors.New("redis down") },
			want:  domain.ErrUnauthenticated,
		},
		{
			name:  "provider outage",
			token: "tok-u-admin",
			setup: func(p *stubProvider, _ *stubRevoker) { p.verifyErr = errors.New("jwks unavailable") },
			want:  domain.ErrUnauthenticated,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, provider, revoker := newIdentityFixture(t)
			if tc.setup != nil {
				tc.setup(provider, revoker)
			}

			p, err := svc.Resolve(context.Background(), tc.token)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if p != nil {
				t.Errorf("expected no principal, got %+v", p)
			}
		})
	}
}
