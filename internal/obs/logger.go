package obs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig shapes the process-wide logger. Every line carries the
// service/env/version triple so one stream can serve all bookly binaries.
type LogConfig struct {
	Level   string
	Pretty  bool
	Service string
	Env     string
	Ver     string
}

// NewLogger builds the root zap logger. An unknown level falls back to info
// rather than failing startup.
func NewLogger(c LogConfig) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	if c.Pretty {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		// login/logout/revocation lines double as the audit trail and must
		// never be sampled away
		cfg.Sampling = nil
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build(zap.Fields(
		zap.String("service", c.Service),
		zap.String("env", c.Env),
		zap.String("version", c.Ver),
	))
}
