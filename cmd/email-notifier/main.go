package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	config "github.com/bookly-labs/bookly/internal/config/email-notifier"
	"github.com/bookly-labs/bookly/internal/obs"
	"github.com/bookly-labs/bookly/internal/repository/kafka"
	notifier "github.com/bookly-labs/bookly/internal/services/email-notifier"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal(err)
	}

	l, err := obs.NewLogger(cfg.AsLoggerConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	l.Info("starting email-notifier",
		zap.Strings("brokers", cfg.In.Brokers),
		zap.String("topic", cfg.In.Topic),
		zap.String("smtp_addr", cfg.SMTP.Addr),
	)

	otelCloser, err := obs.SetupOTel(rootCtx, cfg.AsOTELConfig())
	if err != nil {
		l.Warn("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, func(context.Context) error { return nil }, l)

	cons := kafka.BootstrapConsumer(rootCtx, &kafka.ConsumerConfig{
		Brokers: cfg.In.Brokers,
		Topic:   cfg.In.Topic,
		GroupID: cfg.In.GroupID,
		Logger:  l,
	}, l).WithLogger(l)
	defer func() { _ = cons.Close() }()

	runner := notifier.NewRunner(l, cons, notifier.NewMailer(cfg.SMTP, l))
	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(rootCtx) }()

	select {
	case <-rootCtx.Done():
		l.Info("shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("runner error", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/email-notifier.yaml"
}
