package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_signups_total",
		Help: "Accounts created.",
	})
	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})
	tokenRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_token_rejections_total",
		Help: "Guarded requests rejected, by reason.",
	}, []string{"reason"})
	mailPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_mail_published_total",
		Help: "Mail messages handed to the broker.",
	})
	mailPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_mail_publish_failures_total",
		Help: "Mail messages the broker refused.",
	})
)
