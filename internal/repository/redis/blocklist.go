package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/bookly-labs/bookly/internal/domain/auth"
)

// Namespace prefixes every key so the blocklist can share a redis database
// with other tenants.
const Namespace = "bookly"

const DefaultJTITTL = time.Hour

type Config struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

var _ domainauth.Blocklist = (*Blocklist)(nil)

// Blocklist keeps revoked token ids in redis with a fixed TTL. SET is
// idempotent: revoking twice only refreshes the expiry, which keeps revocation
// monotonic under concurrent callers.
type Blocklist struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewBlocklist(rdb *redis.Client, ttl time.Duration) *Blocklist {
	if ttl <= 0 {
		ttl = DefaultJTITTL
	}
	return &Blocklist{rdb: rdb, ttl: ttl}
}

func (b *Blocklist) Revoke(ctx context.Context, jti string) error {
	if err := b.rdb.Set(ctx, jtiKey(jti), "", b.ttl).Err(); err != nil {
		return fmt.Errorf("blocklist set: %w", err)
	}
	return nil
}

func (b *Blocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.rdb.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("blocklist exists: %w", err)
	}
	return n > 0, nil
}

func jtiKey(jti string) string {
	return Namespace + ":blocklist:jti:" + jti
}
