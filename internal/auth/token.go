package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainauth "github.com/bookly-labs/bookly/internal/domain/auth"
)

var ErrTokenInvalid = errors.New("invalid token")

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 48 * time.Hour
)

// TokenCodec issues and verifies HS256 session tokens. Every issued token
// gets a fresh jti; verification collapses all failure modes into
// ErrTokenInvalid so callers cannot tell a bad signature from an expired
// token, while the real cause lands in the log.
type TokenCodec struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
	log       *zap.Logger
}

func NewTokenCodec(secret []byte, accessTTL time.Duration, log *zap.Logger) *TokenCodec {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TokenCodec{
		secret:    secret,
		accessTTL: accessTTL,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log.With(zap.String("component", "auth.tokens")),
	}
}

// WithClock overrides the time source, for tests.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

// Issue signs a session token for the given identity. A zero ttl means the
// configured access-token lifetime; refresh callers pass their own, longer one.
func (c *TokenCodec) Issue(user domainauth.UserClaims, ttl time.Duration, refresh bool) (string, error) {
	if ttl <= 0 {
		ttl = c.accessTTL
	}
	now := c.now()
	claims := &domainauth.Claims{
		User:    user,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify decodes and validates a session token. Any failure - bad signature,
// wrong algorithm, malformed structure, expired - returns ErrTokenInvalid.
func (c *TokenCodec) Verify(token string) (*domainauth.Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &domainauth.Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		c.log.Debug("token rejected", zap.Error(err))
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*domainauth.Claims)
	if !ok || !parsed.Valid {
		c.log.Debug("token rejected: claims not decodable")
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
