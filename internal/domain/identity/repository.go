package identity

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows user listings
type Filter struct {
	Role   *Role
	Status *UserStatus
	Search string // matches email, mobile or name
	Limit  int
	Offset int
}

// Repository persists users. Email is unique; implementations surface
// shared.ErrAlreadyExists on collision.
type Repository interface {
	Save(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter Filter) ([]*User, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
