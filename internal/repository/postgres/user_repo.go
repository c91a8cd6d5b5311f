package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bookly-labs/bookly/internal/domain/user"
)

var _ user.Repo = (*UserRepo)(nil)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `uid, username, email, first_name, last_name, role, is_verified, password_hash, created_at, updated_at`

const (
	qUserInsert = `
INSERT INTO users (uid, username, email, first_name, last_name, role, is_verified, password_hash)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + userColumns + `;`

	qUserByUID = `
SELECT ` + userColumns + `
FROM users
WHERE uid = $1;`

	qUserByEmail = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1;`

	qUserPatch = `
UPDATE users
SET is_verified   = COALESCE($2, is_verified),
    password_hash = COALESCE($3, password_hash),
    updated_at    = NOW()
WHERE uid = $1
RETURNING ` + userColumns + `;`
)

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if u.UID == uuid.Nil {
		u.UID = uuid.New()
	}
	if u.Role == "" {
		u.Role = user.DefaultRole
	}

	row := r.db.Pool.QueryRow(ctx, qUserInsert,
		u.UID, u.Username, u.Email, u.FirstName, u.LastName, u.Role, u.IsVerified, u.PasswordHash)
	if err := scanUser(row, u); err != nil {
		var pgErr *pgconn.PgError
		// unique_violation on users.email is the storage-level backstop for
		// concurrent signups racing past the application-level check
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("user insert: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByUID(ctx context.Context, uid uuid.UUID) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	if err := scanUser(r.db.Pool.QueryRow(ctx, qUserByUID, uid), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	if err := scanUser(r.db.Pool.QueryRow(ctx, qUserByEmail, email), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ApplyPatch(ctx context.Context, uid uuid.UUID, p user.Patch) (*user.User, error) {
	// an empty patch must not touch the row, not even updated_at
	if p.Empty() {
		return r.GetByUID(ctx, uid)
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	if err := scanUser(r.db.Pool.QueryRow(ctx, qUserPatch, uid, p.IsVerified, p.PasswordHash), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func scanUser(row pgx.Row, out *user.User) error {
	err := row.Scan(
		&out.UID, &out.Username, &out.Email, &out.FirstName, &out.LastName,
		&out.Role, &out.IsVerified, &out.PasswordHash, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("scan user: %w", err)
	}
	return nil
}
