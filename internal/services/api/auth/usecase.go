package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	authcodec "github.com/bookly-labs/bookly/internal/auth"
	domainauth "github.com/bookly-labs/bookly/internal/domain/auth"
	"github.com/bookly-labs/bookly/internal/domain/mail"
	"github.com/bookly-labs/bookly/internal/domain/user"
	"github.com/bookly-labs/bookly/internal/obs"
	"github.com/bookly-labs/bookly/internal/repository/postgres"
)

type Config struct {
	// Domain is the public host links in outgoing mail point at.
	Domain     string
	RefreshTTL time.Duration
	Now        func() time.Time
}

// Usecase wires the account lifecycle together: signup, verification,
// login, token refresh, revocation and password reset. HTTP concerns stay in
// the handler; everything here speaks domain errors.
type Usecase struct {
	users     user.Repo
	tokens    *authcodec.TokenCodec
	verifyLnk *authcodec.LinkCodec
	resetLnk  *authcodec.LinkCodec
	blocklist domainauth.Blocklist
	mail      mail.Publisher
	cfg       Config
	log       *zap.Logger
}

func NewUsecase(
	users user.Repo,
	tokens *authcodec.TokenCodec,
	verifyLnk, resetLnk *authcodec.LinkCodec,
	blocklist domainauth.Blocklist,
	publisher mail.Publisher,
	cfg Config,
	log *zap.Logger,
) *Usecase {
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = authcodec.DefaultRefreshTTL
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		users:     users,
		tokens:    tokens,
		verifyLnk: verifyLnk,
		resetLnk:  resetLnk,
		blocklist: blocklist,
		mail:      publisher,
		cfg:       cfg,
		log:       log.With(zap.String("component", "auth.usecase")),
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type SignUpInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// SignUp creates an unverified account and dispatches the verification mail.
// The uniqueness pre-check gives the common case a friendly error; the
// UNIQUE(email) constraint in storage backstops the race.
func (u *Usecase) SignUp(ctx context.Context, in SignUpInput) (*user.User, error) {
	email := normalizeEmail(in.Email)

	if _, err := u.users.GetByEmail(ctx, email); err == nil {
		return nil, domainauth.ErrUserAlreadyExists
	} else if !errors.Is(err, postgres.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := authcodec.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	newUser := &user.User{
		Username:     in.Username,
		Email:        email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	}
	if err := u.users.Create(ctx, newUser); err != nil {
		if errors.Is(err, postgres.ErrConflict) {
			return nil, domainauth.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := u.verifyLnk.Encode(domainauth.LinkPayload{Email: email})
	if err != nil {
		return nil, err
	}
	u.dispatchMail(ctx, mail.Message{
		Recipients: []string{email},
		Subject:    verifySubject,
		Body:       verifyBody(u.cfg.Domain, token),
	})
	return newUser, nil
}

// Verify consumes an email-link token and flips the account to verified.
// Re-verifying an already verified account is a no-op success.
func (u *Usecase) Verify(ctx context.Context, token string) error {
	payload, err := u.verifyLnk.Decode(token)
	if err != nil {
		return domainauth.ErrInvalidToken
	}
	if payload.Email == "" {
		return domainauth.ErrServer
	}
	rec, err := u.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return domainauth.ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}
	verified := true
	if _, err := u.users.ApplyPatch(ctx, rec.UID, user.Patch{IsVerified: &verified}); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// Login checks credentials and issues an access/refresh pair. Absent user and
// wrong password take the same error path so responses cannot be used as an
// account-existence oracle.
func (u *Usecase) Login(ctx context.Context, email, password string) (*user.User, *domainauth.TokenPair, error) {
	email = normalizeEmail(email)
	rec, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, nil, domainauth.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if !authcodec.VerifyPassword(password, rec.PasswordHash) {
		return nil, nil, domainauth.ErrInvalidCredentials
	}

	access, err := u.tokens.Issue(domainauth.UserClaims{
		Email: rec.Email,
		UID:   rec.UID.String(),
		Role:  rec.Role,
	}, 0, false)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := u.tokens.Issue(domainauth.UserClaims{
		Email: rec.Email,
		UID:   rec.UID.String(),
	}, u.cfg.RefreshTTL, true)
	if err != nil {
		return nil, nil, err
	}
	return rec, &domainauth.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh mints a new access token from still-valid refresh claims. The
// identity is taken from the claims as-is; storage is not consulted.
func (u *Usecase) Refresh(ctx context.Context, claims *domainauth.Claims) (string, error) {
	if !claims.ExpiresAt().After(u.cfg.Now()) {
		return "", domainauth.ErrInvalidToken
	}
	return u.tokens.Issue(claims.User, 0, false)
}

// Logout puts the presented access token's jti on the blocklist. Revoking a
// token that is already revoked succeeds again.
func (u *Usecase) Logout(ctx context.Context, claims *domainauth.Claims) error {
	if err := u.blocklist.Revoke(ctx, claims.JTI()); err != nil {
		return fmt.Errorf("revoke jti: %w", err)
	}
	return nil
}

// Me resolves the authenticated identity to the stored account record.
func (u *Usecase) Me(ctx context.Context, claims *domainauth.Claims) (*user.User, error) {
	rec, err := u.users.GetByEmail(ctx, claims.User.Email)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, domainauth.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return rec, nil
}

// RequestPasswordReset always reports success to the caller. The reset mail
// is only dispatched when the account exists, and the branch is invisible
// from the outside.
func (u *Usecase) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	if _, err := u.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}

	token, err := u.resetLnk.Encode(domainauth.LinkPayload{Email: email})
	if err != nil {
		return err
	}
	u.dispatchMail(ctx, mail.Message{
		Recipients: []string{email},
		Subject:    resetSubject,
		Body:       resetBody(u.cfg.Domain, token),
	})
	return nil
}

// ConfirmPasswordReset validates the reset link and installs a new password.
// The confirmation check runs before the token is even looked at, so a typo
// never consumes anything.
func (u *Usecase) ConfirmPasswordReset(ctx context.Context, token, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return domainauth.ErrPasswordMismatch
	}
	payload, err := u.resetLnk.Decode(token)
	if err != nil {
		return domainauth.ErrInvalidToken
	}
	if payload.Email == "" {
		return domainauth.ErrServer
	}
	rec, err := u.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return domainauth.ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}
	hash, err := authcodec.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if _, err := u.users.ApplyPatch(ctx, rec.UID, user.Patch{PasswordHash: &hash}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SendMail dispatches a free-form message to a list of addresses.
func (u *Usecase) SendMail(ctx context.Context, recipients []string, subject, body string) {
	u.dispatchMail(ctx, mail.Message{Recipients: recipients, Subject: subject, Body: body})
}

// dispatchMail is fire and forget: a broker hiccup is logged and counted but
// never fails the request that triggered the mail.
func (u *Usecase) dispatchMail(ctx context.Context, m mail.Message) {
	if err := u.mail.Publish(ctx, m); err != nil {
		mailPublishFailures.Inc()
		obs.WithTrace(ctx, u.log).Warn("mail dispatch failed",
			zap.String("subject", m.Subject), zap.Error(err))
		return
	}
	mailPublished.Inc()
}
