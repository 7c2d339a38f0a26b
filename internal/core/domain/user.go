package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleOperador   Role = "operador"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleSupervisor, RoleOperador}

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleSupervisor, RoleOperador:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// UserStatus is the local activation state of a user.
type UserStatus string

const (
	UserActive   UserStatus = "activo"
	UserInactive UserStatus = "inactivo"
)

// Principal is the verified identity attached to a request.
type Principal struct {
	ID     string
	Email  string
	Role   Role
	Status UserStatus
}

var ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
var ErrUserExists = fmt.Errorf("%w: user already exists", ErrConflict)
var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
var ErrUserInactive = fmt.Errorf("%w: user inactive", ErrUnauthenticated)

// User models an account of the backoffice.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"nombre"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"rol"`
	Status       UserStatus `json:"estado"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Principal projects the user into the request identity.
func (u *User) Principal() *Principal {
	return &Principal{ID: u.ID, Email: u.Email, Role: u.Role, Status: u.Status}
}
