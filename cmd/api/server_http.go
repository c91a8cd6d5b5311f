package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	config "github.com/bookly-labs/bookly/internal/config/api"
	"github.com/bookly-labs/bookly/internal/obs"
	pg "github.com/bookly-labs/bookly/internal/repository/postgres"
)

func buildHTTPServer(cfg *config.Config, logger *zap.Logger, d *deps) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", d.auth.Routes())
	})

	handler := otelhttp.NewHandler(r, "bookly-api")

	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// requestLogger emits one structured line per request, after it completes.
func requestLogger(l *zap.Logger) func(http.Handler) http.Handler {
	log := l.With(zap.String("component", "http"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			obs.WithTrace(r.Context(), log).Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func bootstrapMetrics(cfg *config.Config, logger *zap.Logger, db *pg.DB, rdb *redis.Client) *http.Server {
	return obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, func(ctx context.Context) error {
		if err := db.Pool.Ping(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	}, logger)
}
