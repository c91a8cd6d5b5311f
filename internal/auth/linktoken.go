package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domainauth "github.com/bookly-labs/bookly/internal/domain/auth"
)

// LinkCodec signs the short-lived tokens embedded in email links
// (account verification, password reset). The signing key is derived from
// the shared secret and a per-purpose salt, so a link token can never be
// replayed as a session token or across purposes.
type LinkCodec struct {
	key    []byte
	maxAge time.Duration
	now    func() time.Time
	log    *zap.Logger
}

const DefaultLinkMaxAge = 24 * time.Hour

type linkEnvelope struct {
	Payload  domainauth.LinkPayload `json:"payload"`
	IssuedAt int64                  `json:"iat"`
}

func NewLinkCodec(secret []byte, salt string, maxAge time.Duration, log *zap.Logger) *LinkCodec {
	if maxAge <= 0 {
		maxAge = DefaultLinkMaxAge
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LinkCodec{
		key:    deriveKey(secret, salt),
		maxAge: maxAge,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log.With(zap.String("component", "auth.linktokens")),
	}
}

func (c *LinkCodec) WithClock(now func() time.Time) *LinkCodec {
	cp := *c
	cp.now = now
	return &cp
}

// Encode serializes and signs the payload together with an issuance timestamp.
func (c *LinkCodec) Encode(p domainauth.LinkPayload) (string, error) {
	raw, err := json.Marshal(linkEnvelope{Payload: p, IssuedAt: c.now().Unix()})
	if err != nil {
		return "", fmt.Errorf("marshal link payload: %w", err)
	}
	body := base64.RawURLEncoding.EncodeToString(raw)
	sig := base64.RawURLEncoding.EncodeToString(hmacSHA256(c.key, []byte(body)))
	return body + "." + sig, nil
}

// Decode validates signature and age. Every failure mode collapses into
// ErrTokenInvalid; the cause is logged, never surfaced.
func (c *LinkCodec) Decode(token string) (*domainauth.LinkPayload, error) {
	body, sigB64, ok := strings.Cut(token, ".")
	if !ok {
		c.log.Debug("link token rejected: bad structure")
		return nil, ErrTokenInvalid
	}

	sig, err := base64.RawURLEncoding.DecodeString(sigB64)
	if err != nil {
		c.log.Debug("link token rejected: bad signature encoding")
		return nil, ErrTokenInvalid
	}
	if !hmac.Equal(sig, hmacSHA256(c.key, []byte(body))) {
		c.log.Debug("link token rejected: signature mismatch")
		return nil, ErrTokenInvalid
	}

	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		c.log.Debug("link token rejected: bad body encoding")
		return nil, ErrTokenInvalid
	}
	var env linkEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Debug("link token rejected: bad payload", zap.Error(err))
		return nil, ErrTokenInvalid
	}

	issued := time.Unix(env.IssuedAt, 0)
	now := c.now()
	if issued.After(now) || now.Sub(issued) > c.maxAge {
		c.log.Debug("link token rejected: outside validity window",
			zap.Time("issued_at", issued), zap.Duration("max_age", c.maxAge))
		return nil, ErrTokenInvalid
	}
	return &env.Payload, nil
}

func deriveKey(secret []byte, salt string) []byte {
	return hmacSHA256(secret, []byte(salt))
}

func hmacSHA256(key, message []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}
