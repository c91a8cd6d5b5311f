package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authcodec "github.com/bookly-labs/bookly/internal/auth"
	domainauth "github.com/bookly-labs/bookly/internal/domain/auth"
)

func TestSignUp(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	u, err := e.signUp(ctx, "reader@example.com")
	require.NoError(t, err)
	require.Equal(t, "reader@example.com", u.Email)
	require.Equal(t, "user", u.Role)
	require.False(t, u.IsVerified)
	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "s3cret-pass", u.PasswordHash)

	msgs := e.outbox.messages()
	require.Len(t, msgs, 1)
	require.Equal(t, []string{"reader@example.com"}, msgs[0].Recipients)
	require.Equal(t, "Verify your Email", msgs[0].Subject)
	require.Contains(t, msgs[0].Body, "http://bookly.test/api/v1/auth/verify/")
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.signUp(ctx, "reader@example.com")
	require.NoError(t, err)

	_, err = e.signUp(ctx, "reader@example.com")
	require.ErrorIs(t, err, domainauth.ErrUserAlreadyExists)

	// email comparison is case and whitespace insensitive
	_, err = e.signUp(ctx, "  Reader@Example.COM ")
	require.ErrorIs(t, err, domainauth.ErrUserAlreadyExists)
}

func TestVerify(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	u, err := e.signUp(ctx, "reader@example.com")
	require.NoError(t, err)
	require.False(t, u.IsVerified)

	token, err := e.verifyLnk.Encode(domainauth.LinkPayload{Email: u.Email})
	require.NoError(t, err)

	require.NoError(t, e.uc.Verify(ctx, token))
	got, err := e.users.GetByUID(ctx, u.UID)
	require.NoError(t, err)
	require.True(t, got.IsVerified)

	// re-verification is a no-op success
	require.NoError(t, e.uc.Verify(ctx, token))
}

func TestVerify_BadToken(t *testing.T) {
	e := newEnv()
	require.ErrorIs(t, e.uc.Verify(context.Background(), "garbage"), domainauth.ErrInvalidToken)
}

func TestVerify_UnknownUser(t *testing.T) {
	e := newEnv()
	token, err := e.verifyLnk.Encode(domainauth.LinkPayload{Email: "ghost@example.com"})
	require.NoError(t, err)
	require.ErrorIs(t, e.uc.Verify(context.Background(), token), domainauth.ErrUserNotFound)
}

func TestLogin(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	u, err := e.signUp(ctx, "reader@example.com")
	require.NoError(t, err)

	rec, pair, err := e.uc.Login(ctx, "reader@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, u.UID, rec.UID)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	access, err := e.tokens.Verify(pair.Access)
	require.NoError(t, err)
	require.False(t, access.Refresh)
	require.Equal(t, "reader@example.com", access.User.Email)
	require.Equal(t, u.UID.String(), access.User.UID)
	require.Equal(t, "user", access.User.Role)

	refresh, err := e.tokens.Verify(pair.Refresh)
	require.NoError(t, err)
	require.True(t, refresh.Refresh)
	require.Empty(t, refresh.User.Role)
	require.True(t, refresh.ExpiresAt().After(access.ExpiresAt()))
}

func TestLogin_BadCredentials(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.signUp(ctx, "reader@example.com")
	require.NoError(t, err)

	_, _, err = e.uc.Login(ctx, "reader@example.com", "wrong-pass")
	require.ErrorIs(t, err, domainauth.ErrInvalidCredentials)

	// an absent account produces the exact same error
	_, _, err = e.uc.Login(ctx, "ghost@example.com", "s3cret-pass")
	require.ErrorIs(t, err, domainauth.ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	u := e.verifiedUser(ctx, "reader@example.com")
	_, pair, err := e.uc.Login(ctx, u.Email, "s3cret-pass")
	require.NoError(t, err)

	claims, err := e.tokens.Verify(pair.Refresh)
	require.NoError(t, err)

	access, err := e.uc.Refresh(ctx, claims)
	require.NoError(t, err)

	got, err := e.tokens.Verify(access)
	require.NoError(t, err)
	require.False(t, got.Refresh)
	require.Equal(t, claims.User.Email, got.User.Email)
}

func TestRefresh_ExpiredClaims(t *testing.T) {
	e := newEnv()

	stale := &domainauth.Claims{User: domainauth.UserClaims{Email: "reader@example.com"}}
	// zero ExpiresAt never passes the freshness check
	_, err := e.uc.Refresh(context.Background(), stale)
	require.ErrorIs(t, err, domainauth.ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	u := e.verifiedUser(ctx, "reader@example.com")
	_, pair, err := e.uc.Login(ctx, u.Email, "s3cret-pass")
	require.NoError(t, err)

	claims, err := e.tokens.Verify(pair.Access)
	require.NoError(t, err)

	require.NoError(t, e.uc.Logout(ctx, claims))
	revoked, err := e.blocklist.IsRevoked(ctx, claims.JTI())
	require.NoError(t, err)
	require.True(t, revoked)

	// revoking again still succeeds
	require.NoError(t, e.uc.Logout(ctx, claims))
}

func TestRequestPasswordReset(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.signUp(ctx, "reader@example.com")
	require.NoError(t, err)
	e.outbox.sent = nil

	require.NoError(t, e.uc.RequestPasswordReset(ctx, "reader@example.com"))
	msgs := e.outbox.messages()
	require.Len(t, msgs, 1)
	require.Equal(t, "Reset Your Password", msgs[0].Subject)
	require.Contains(t, msgs[0].Body, "http://bookly.test/api/v1/auth/password-reset-confirm/")
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	e := newEnv()

	// same success, no mail: responses must not leak account existence
	require.NoError(t, e.uc.RequestPasswordReset(context.Background(), "ghost@example.com"))
	require.Empty(t, e.outbox.messages())
}

func TestConfirmPasswordReset(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	u, err := e.signUp(ctx, "reader@example.com")
	require.NoError(t, err)

	token, err := e.resetLnk.Encode(domainauth.LinkPayload{Email: u.Email})
	require.NoError(t, err)

	require.NoError(t, e.uc.ConfirmPasswordReset(ctx, token, "new-pass-123", "new-pass-123"))

	_, _, err = e.uc.Login(ctx, u.Email, "s3cret-pass")
	require.ErrorIs(t, err, domainauth.ErrInvalidCredentials)
	_, _, err = e.uc.Login(ctx, u.Email, "new-pass-123")
	require.NoError(t, err)
}

func TestConfirmPasswordReset_Mismatch(t *testing.T) {
	e := newEnv()
	err := e.uc.ConfirmPasswordReset(context.Background(), "irrelevant", "one", "two")
	require.ErrorIs(t, err, domainauth.ErrPasswordMismatch)
}

func TestConfirmPasswordReset_BadToken(t *testing.T) {
	e := newEnv()
	err := e.uc.ConfirmPasswordReset(context.Background(), "garbage", "new-pass", "new-pass")
	require.ErrorIs(t, err, domainauth.ErrInvalidToken)
}

func TestConfirmPasswordReset_SessionTokenRejected(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	u := e.verifiedUser(ctx, "reader@example.com")
	_, pair, err := e.uc.Login(ctx, u.Email, "s3cret-pass")
	require.NoError(t, err)

	// a session JWT must never pass as a reset link token
	err = e.uc.ConfirmPasswordReset(ctx, pair.Access, "new-pass", "new-pass")
	require.ErrorIs(t, err, domainauth.ErrInvalidToken)
}

func TestVerifyLinkRejectedAsResetLink(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	u, err := e.signUp(ctx, "reader@example.com")
	require.NoError(t, err)

	verifyToken, err := e.verifyLnk.Encode(domainauth.LinkPayload{Email: u.Email})
	require.NoError(t, err)

	err = e.uc.ConfirmPasswordReset(ctx, verifyToken, "new-pass", "new-pass")
	require.ErrorIs(t, err, domainauth.ErrInvalidToken)
}

func TestSendMail(t *testing.T) {
	e := newEnv()
	e.uc.SendMail(context.Background(), []string{"a@example.com", "b@example.com"}, "Hello", "<p>hi</p>")

	msgs := e.outbox.messages()
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Recipients, 2)
	require.Equal(t, "Hello", msgs[0].Subject)
}

func TestLinkTokenFromMailBody(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	u, err := e.signUp(ctx, "reader@example.com")
	require.NoError(t, err)

	// the token embedded in the mail body must verify the account end to end
	body := e.outbox.messages()[0].Body
	const marker = "/api/v1/auth/verify/"
	i := strings.Index(body, marker)
	require.GreaterOrEqual(t, i, 0)
	rest := body[i+len(marker):]
	token := rest[:strings.IndexAny(rest, `"`)]

	require.NoError(t, e.uc.Verify(ctx, token))
	got, err := e.users.GetByUID(ctx, u.UID)
	require.NoError(t, err)
	require.True(t, got.IsVerified)
}

func TestRefreshClock(t *testing.T) {
	secret := []byte("test-secret")
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	e := newEnv()
	codec := authcodec.NewTokenCodec(secret, time.Hour, nil).WithClock(func() time.Time { return now })
	e.uc.tokens = codec
	e.uc.cfg.Now = func() time.Time { return now }

	refresh, err := codec.Issue(domainauth.UserClaims{Email: "reader@example.com"}, 48*time.Hour, true)
	require.NoError(t, err)
	claims, err := codec.Verify(refresh)
	require.NoError(t, err)

	_, err = e.uc.Refresh(context.Background(), claims)
	require.NoError(t, err)

	// two days later the same refresh claims are stale
	e.uc.cfg.Now = func() time.Time { return now.Add(49 * time.Hour) }
	_, err = e.uc.Refresh(context.Background(), claims)
	require.ErrorIs(t, err, domainauth.ErrInvalidToken)
}

func TestVerify_EmptyEmailPayload(t *testing.T) {
	e := newEnv()

	token, err := e.verifyLnk.Encode(domainauth.LinkPayload{})
	require.NoError(t, err)
	require.ErrorIs(t, e.uc.Verify(context.Background(), token), domainauth.ErrServer)
}
