package users

import (
	"time"

	"github.com/scienceclub/hallhub/internal/access"
)

// User represents a console account for management.
type User struct {
	ID        int64
	Email     string
	Name      string
	Role      access.Role
	IsAdmin   bool
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleLabel returns the Arabic display label for the account role.
func (u User) RoleLabel() string {
	return u.Role.Label()
}

// NewUserInput carries the fields required to create an account.
type NewUserInput struct {
	Email    string
	Name     string
	Password string
	Role     access.Role
	IsAdmin  bool
}

// UpdateUserInput carries the mutable fields of an account.
type UpdateUserInput struct {
	Email   string
	Name    string
	Role    access.Role
	IsAdmin bool
}
