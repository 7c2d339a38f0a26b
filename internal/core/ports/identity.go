package ports

import (
	"context"
	"time"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

// Identity is what the external identity provider vouches for.
type Identity struct {
	Subject   string
	TokenID   string
	ExpiresAt time.Time
}

// IdentityProvider verifies bearer credentials and issues new ones.
type IdentityProvider interface {
	Verify(ctx context.Context, token string) (*Identity, error)
	Issue(user *domain.User) (token string, expiresAt time.Time, err error)
}

// TokenRevoker keeps the set of tokens invalidated by logout.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// IdentityResolver turns a bearer credential into a verified principal.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Principal, error)
}

// GeoLocator reports the country of an IP address. An empty country means unknown.
type GeoLocator interface {
	Country(ctx context.Context, ip string) (string, error)
}
