package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for user accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	RecordLogin(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]*User, int, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
