package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainauth "github.com/bookly-labs/bookly/internal/domain/auth"
)

func TestLinkCodec_RoundTrip(t *testing.T) {
	c := NewLinkCodec(testSecret, "email-verification", 24*time.Hour, zap.NewNop())

	token, err := c.Encode(domainauth.LinkPayload{Email: "reader@example.com"})
	require.NoError(t, err)
	require.Contains(t, token, ".")

	payload, err := c.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "reader@example.com", payload.Email)
}

func TestLinkCodec_TamperedSignature(t *testing.T) {
	c := NewLinkCodec(testSecret, "email-verification", 24*time.Hour, zap.NewNop())

	token, err := c.Encode(domainauth.LinkPayload{Email: "reader@example.com"})
	require.NoError(t, err)

	raw := []byte(token)
	raw[len(raw)-1] ^= 0x01
	_, err = c.Decode(string(raw))
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestLinkCodec_TamperedBody(t *testing.T) {
	c := NewLinkCodec(testSecret, "email-verification", 24*time.Hour, zap.NewNop())

	token, err := c.Encode(domainauth.LinkPayload{Email: "reader@example.com"})
	require.NoError(t, err)

	body, sig, _ := strings.Cut(token, ".")
	mut := []byte(body)
	mut[0] ^= 0x01
	_, err = c.Decode(string(mut) + "." + sig)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestLinkCodec_SaltIsolation(t *testing.T) {
	verify := NewLinkCodec(testSecret, "email-verification", 24*time.Hour, zap.NewNop())
	reset := NewLinkCodec(testSecret, "password-reset", 24*time.Hour, zap.NewNop())

	token, err := verify.Encode(domainauth.LinkPayload{Email: "reader@example.com"})
	require.NoError(t, err)

	// same secret, different purpose: token must not cross over
	_, err = reset.Decode(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestLinkCodec_Expired(t *testing.T) {
	issued := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	c := NewLinkCodec(testSecret, "email-verification", time.Hour, zap.NewNop()).
		WithClock(func() time.Time { return issued })

	token, err := c.Encode(domainauth.LinkPayload{Email: "reader@example.com"})
	require.NoError(t, err)

	late := c.WithClock(func() time.Time { return issued.Add(2 * time.Hour) })
	_, err = late.Decode(token)
	require.ErrorIs(t, err, ErrTokenInvalid)

	early := c.WithClock(func() time.Time { return issued.Add(30 * time.Minute) })
	payload, err := early.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "reader@example.com", payload.Email)
}

func TestLinkCodec_FutureIssuance(t *testing.T) {
	issued := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	c := NewLinkCodec(testSecret, "email-verification", time.Hour, zap.NewNop()).
		WithClock(func() time.Time { return issued })

	token, err := c.Encode(domainauth.LinkPayload{Email: "reader@example.com"})
	require.NoError(t, err)

	past := c.WithClock(func() time.Time { return issued.Add(-time.Minute) })
	_, err = past.Decode(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestLinkCodec_Garbage(t *testing.T) {
	c := NewLinkCodec(testSecret, "email-verification", time.Hour, zap.NewNop())
	for _, tok := range []string{"", "no-dot", "bad.!signature", "!body.c2ln"} {
		_, err := c.Decode(tok)
		require.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}
