package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	authcodec "github.com/bookly-labs/bookly/internal/auth"
	domainauth "github.com/bookly-labs/bookly/internal/domain/auth"
	"github.com/bookly-labs/bookly/internal/domain/mail"
	"github.com/bookly-labs/bookly/internal/domain/user"
	"github.com/bookly-labs/bookly/internal/repository/postgres"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*user.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.users {
		if ex.Email == u.Email {
			return postgres.ErrConflict
		}
	}
	if u.UID == uuid.Nil {
		u.UID = uuid.New()
	}
	if u.Role == "" {
		u.Role = user.DefaultRole
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	r.users[u.UID] = &cp
	return nil
}

func (r *memUserRepo) GetByUID(_ context.Context, uid uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uid]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, postgres.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *memUserRepo) ApplyPatch(_ context.Context, uid uuid.UUID, p user.Patch) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	if p.Empty() {
		cp := *u
		return &cp, nil
	}
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

type memBlocklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemBlocklist() *memBlocklist {
	return &memBlocklist{revoked: map[string]bool{}}
}

func (b *memBlocklist) Revoke(_ context.Context, jti string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = true
	return nil
}

func (b *memBlocklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[jti], nil
}

type memPublisher struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (p *memPublisher) Publish(_ context.Context, m mail.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, m)
	return nil
}

func (p *memPublisher) messages() []mail.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mail.Message(nil), p.sent...)
}

type env struct {
	users     *memUserRepo
	blocklist *memBlocklist
	outbox    *memPublisher
	tokens    *authcodec.TokenCodec
	verifyLnk *authcodec.LinkCodec
	resetLnk  *authcodec.LinkCodec
	uc        *Usecase
	ctrl      *Controller
}

func newEnv() *env {
	secret := []byte("test-secret")
	log := zap.NewNop()

	e := &env{
		users:     newMemUserRepo(),
		blocklist: newMemBlocklist(),
		outbox:    &memPublisher{},
		tokens:    authcodec.NewTokenCodec(secret, time.Hour, log),
		verifyLnk: authcodec.NewLinkCodec(secret, "email-verification", 24*time.Hour, log),
		resetLnk:  authcodec.NewLinkCodec(secret, "password-reset", 24*time.Hour, log),
	}
	e.uc = NewUsecase(e.users, e.tokens, e.verifyLnk, e.resetLnk, e.blocklist, e.outbox, Config{
		Domain:     "bookly.test",
		RefreshTTL: 48 * time.Hour,
	}, log)
	e.ctrl = NewController(e.uc, e.tokens, e.blocklist, log)
	return e
}

func (e *env) signUp(ctx context.Context, email string) (*user.User, error) {
	return e.uc.SignUp(ctx, SignUpInput{
		Username:  "reader",
		Email:     email,
		FirstName: "Ana",
		LastName:  "Reader",
		Password:  "s3cret-pass",
	})
}

func (e *env) verifiedUser(ctx context.Context, email string) *user.User {
	u, err := e.signUp(ctx, email)
	if err != nil {
		panic(err)
	}
	verified := true
	out, err := e.users.ApplyPatch(ctx, u.UID, user.Patch{IsVerified: &verified})
	if err != nil {
		panic(err)
	}
	return out
}

var _ domainauth.Blocklist = (*memBlocklist)(nil)
var _ user.Repo = (*memUserRepo)(nil)
var _ mail.Publisher = (*memPublisher)(nil)
