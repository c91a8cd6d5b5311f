package main

import (
	"go.uber.org/zap"

	config "github.com/bookly-labs/bookly/internal/config/api"
	"github.com/bookly-labs/bookly/internal/obs"
)

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return obs.NewLogger(cfg.AsLoggerConfig())
}
