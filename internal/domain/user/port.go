package user

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	Create(ctx context.Context, u *User) error
	GetByUID(ctx context.Context, uid uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ApplyPatch(ctx context.Context, uid uuid.UUID, p Patch) (*User, error)
}
