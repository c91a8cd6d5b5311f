package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims is the identity sub-object carried inside a session token.
// The refresh token omits the role on purpose: a refreshed access token
// re-reads it from these claims, and the original issuer decides what goes in.
type UserClaims struct {
	Email string `json:"email"`
	UID   string `json:"user_uid,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Claims is the full session token payload: identity, expiry, a unique
// token id (jti) used as the revocation key, and the kind flag.
type Claims struct {
	User    UserClaims `json:"user"`
	Refresh bool       `json:"refresh"`
	jwt.RegisteredClaims
}

func (c *Claims) JTI() string { return c.RegisteredClaims.ID }

func (c *Claims) ExpiresAt() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

// TokenKind is the token variant a guard requires.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

func (k TokenKind) String() string {
	if k == RefreshToken {
		return "refresh"
	}
	return "access"
}

// LinkPayload is the small payload carried by a signed email-link token.
type LinkPayload struct {
	Email string `json:"email"`
}

type TokenPair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}
