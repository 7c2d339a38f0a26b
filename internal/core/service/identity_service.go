package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

// IdentityService resolves bearer tokens into principals. Provider approval
// alone is not enough: the local record must exist and be active.
type IdentityService struct {
	provider ports.IdentityProvider
	revoker  ports.TokenRevoker
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewIdentityService(provider ports.IdentityProvider, revoker ports.TokenRevoker, users ports.UserRepository, logger zerolog.Logger) *IdentityService {
	return &IdentityService{provider: provider, revoker: revoker, users: users, logger: logger}
}

func (s *IdentityService) Resolve(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	identity, err := s.provider.Verify(ctx, token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("token rejected by identity provider")
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, identity.TokenID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", identity.Subject).Msg("revocation check failed")
			return nil, fmt.Errorf("%w: session could not be verified", domain.ErrUnauthenticated)
		}
		if revoked {
			return nil, fmt.Errorf("%w: session closed", domain.ErrUnauthenticated)
		}
	}

	user, err := s.users.FindByID(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Str("user_id", identity.Subject).Msg("token subject has no local user")
			return nil, fmt.Errorf("%w: user not found", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if user.Status != domain.UserActive {
		s.logger.Warn().Str("user_id", user.ID).Msg("inactive user rejected")
		return nil, domain.ErrUserInactive
	}

	principal := user.Principal()
	s.logger.Info().Str("user_id", principal.ID).Str("role", string(principal.Role)).Msg("principal authenticated")
	return principal, nil
}
