package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

const minPasswordLength = 6

// AuthService implements registration, login, profile lookup and logout.
type AuthService struct {
	repo     ports.UserRepository
	provider ports.IdentityProvider
	revoker  ports.TokenRevoker
	logger   zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, provider ports.IdentityProvider, revoker ports.TokenRevoker, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, provider: provider, revoker: revoker, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var fields []domain.FieldError
	if email == "" {
		fields = append(fields, domain.FieldError{Field: "email", Message: "email is required"})
	}
	if len(in.Password) < minPasswordLength {
		fields = append(fields, domain.FieldError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)})
	}
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, domain.FieldError{Field: "nombre", Message: "nombre is required"})
	}
	if _, err := domain.ParseRole(string(in.Role)); err != nil {
		fields = append(fields, domain.FieldError{Field: "rol", Message: "rol must be one of: admin supervisor operador"})
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hash),
		Role:         in.Role,
		Status:       domain.UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			s.logger.Error().Err(err).Str("email", email).Msg("failed to register user")
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login checks the password and the local status, then issues an access token.
// Unknown emails and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Str("email", email).Msg("login failed")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn().Str("email", email).Msg("login failed")
		return nil, domain.ErrInvalidCredentials
	}
	if user.Status == domain.UserInactive {
		s.logger.Warn().Str("user_id", user.ID).Msg("login rejected: user inactive")
		return nil, domain.ErrUserInactive
	}

	token, expiresAt, err := s.provider.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.Session{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return user, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	identity, err := s.provider.Verify(ctx, token)
	if err != nil {
		return domain.ErrUnauthenticated
	}
	if err := s.revoker.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		s.logger.Error().Err(err).Str("user_id", identity.Subject).Msg("failed to revoke token")
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info().Str("user_id", identity.Subject).Msg("user logged out")
	return nil
}
