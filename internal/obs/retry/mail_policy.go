package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultMailPolicy covers transient SMTP failures. Delivery is best effort;
// after exhaustion the message is dropped and only logged.
func DefaultMailPolicy(log *zap.Logger) Policy {
	return Policy{
		Name:     "smtp_send",
		Attempts: 5,
		Backoff:  ExpoJitter{Base: 500 * time.Millisecond, Max: 15 * time.Second, Jitter: 0.2},
		Retryable: func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		},
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("mail send retry", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("mail send retries exhausted", zap.Error(err))
			}
		},
	}
}
