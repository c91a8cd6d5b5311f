package main

import (
	"context"

	"github.com/redis/go-redis/v9"

	config "github.com/bookly-labs/bookly/internal/config/api"
	rds "github.com/bookly-labs/bookly/internal/repository/redis"
)

func initRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	return rds.NewClient(ctx, cfg.Redis)
}
