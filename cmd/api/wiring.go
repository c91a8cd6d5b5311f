package main

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	authcodec "github.com/bookly-labs/bookly/internal/auth"
	config "github.com/bookly-labs/bookly/internal/config/api"
	authsvc "github.com/bookly-labs/bookly/internal/services/api/auth"

	kafkax "github.com/bookly-labs/bookly/internal/repository/kafka"
	pg "github.com/bookly-labs/bookly/internal/repository/postgres"
	rds "github.com/bookly-labs/bookly/internal/repository/redis"
)

type deps struct {
	auth     *authsvc.Controller
	producer *kafkax.Producer
}

func wiring(cfg *config.Config, l *zap.Logger, db *pg.DB, rdb *redis.Client) *deps {
	users := pg.NewUserRepo(db)
	blocklist := rds.NewBlocklist(rdb, cfg.Auth.BlocklistTTL)
	producer := kafkax.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic).WithLogger(l)

	secret := []byte(cfg.Auth.JWTSecret)
	tokens := authcodec.NewTokenCodec(secret, cfg.Auth.AccessTTL, l)
	verifyLnk := authcodec.NewLinkCodec(secret, cfg.Auth.VerifySalt, cfg.Auth.LinkMaxAge, l)
	resetLnk := authcodec.NewLinkCodec(secret, cfg.Auth.ResetSalt, cfg.Auth.LinkMaxAge, l)

	uc := authsvc.NewUsecase(users, tokens, verifyLnk, resetLnk, blocklist, kafkax.NewMailPublisher(producer), authsvc.Config{
		Domain:     cfg.App.Domain,
		RefreshTTL: cfg.Auth.RefreshTTL,
	}, l)

	return &deps{
		auth:     authsvc.NewController(uc, tokens, blocklist, l),
		producer: producer,
	}
}
