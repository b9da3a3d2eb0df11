// Package user defines the account aggregate used for authentication and
// per-user resource ownership.
package user

import (
	"time"

	"github.com/google/uuid"
)

// Role controls what an account may do.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Status marks whether an account may sign in.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// User represents a system user.  PasswordHash is a bcrypt digest and never
// serializes.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       Status     `json:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Active reports whether the account may authenticate.
func (u *User) Active() bool {
	return u.Status == StatusActive && u.DeletedAt == nil
}

// ListFilter defines filtering options for listing users.
type ListFilter struct {
	Status Status
	Email  string
	Offset int
	Limit  int
}
