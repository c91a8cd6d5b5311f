package main

import (
	"context"

	config "github.com/bookly-labs/bookly/internal/config/api"
	pg "github.com/bookly-labs/bookly/internal/repository/postgres"
)

func initDB(ctx context.Context, cfg *config.Config) (*pg.DB, error) {
	return pg.NewDB(ctx, cfg.DB)
}
