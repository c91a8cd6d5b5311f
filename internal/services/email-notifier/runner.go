package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/bookly-labs/bookly/internal/domain/mail"
	"github.com/bookly-labs/bookly/internal/obs/retry"
	kafkax "github.com/bookly-labs/bookly/internal/repository/kafka"
)

var (
	mConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "email_notifier_messages_consumed_total",
		Help: "Mail messages consumed from the broker",
	})
	mSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "email_notifier_emails_sent_total",
		Help: "Emails delivered",
	})
	mErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "email_notifier_errors_total",
		Help: "Delivery failures after retries",
	})
)

// Runner drains the mail topic and delivers each message over SMTP. A
// message fans out to all its recipients; a recipient that keeps failing
// after retries is skipped so one bad address cannot wedge the partition.
type Runner struct {
	log    *zap.Logger
	cons   *kafkax.Consumer
	out    mail.Sender
	policy retry.Policy
}

func NewRunner(log *zap.Logger, cons *kafkax.Consumer, out mail.Sender) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "notifier.runner"))
	return &Runner{
		log:    log,
		cons:   cons,
		out:    out,
		policy: retry.DefaultMailPolicy(log),
	}
}

func (r *Runner) Run(ctx context.Context) error {
	handler := kafkax.JSONHandler(r.log, func(ctx context.Context, _ []byte, m *mail.Message) error {
		mConsumed.Inc()
		if len(m.Recipients) == 0 {
			r.log.Warn("mail message without recipients", zap.String("subject", m.Subject))
			return nil
		}
		return r.deliver(ctx, m)
	})

	if err := r.cons.Consume(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		r.log.Warn("kafka consume", zap.Error(err))
		return err
	}
	return ctx.Err()
}

func (r *Runner) deliver(ctx context.Context, m *mail.Message) error {
	for _, to := range m.Recipients {
		to := to
		err := retry.Do(ctx, func() error {
			return r.out.Send(ctx, to, m.Subject, m.Body)
		}, r.policy)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			mErrors.Inc()
			r.log.Error("giving up on recipient",
				zap.String("to", to), zap.String("subject", m.Subject), zap.Error(err))
			continue
		}
		mSent.Inc()
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delivery interrupted: %w", err)
	}
	return nil
}
