package ports

import (
	"context"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

// UserRepository defines the persistence operations for local user records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID looks a user up by the identity provider's subject id.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
