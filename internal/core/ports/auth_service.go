package ports

import (
	"context"
	"time"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

// Session is the outcome of a successful login.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}
