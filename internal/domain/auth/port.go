package auth

import "context"

// Blocklist is the authoritative "is this jti revoked" store. Entries expire
// on their own; absence means "not revoked", not "never issued".
type Blocklist interface {
	Revoke(ctx context.Context, jti string) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
