package user

import (
	"time"

	"github.com/google/uuid"
)

const DefaultRole = "user"

type User struct {
	UID          uuid.UUID `json:"uid"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Patch is an explicit partial update. Only non-nil fields are applied,
// so callers can never flip a column they did not mean to touch.
type Patch struct {
	IsVerified   *bool
	PasswordHash *string
}

func (p Patch) Empty() bool {
	return p.IsVerified == nil && p.PasswordHash == nil
}
