package kafka

import (
	"context"

	"github.com/bookly-labs/bookly/internal/domain/mail"
)

var _ mail.Publisher = (*MailPublisher)(nil)

// MailPublisher puts outgoing mail on the broker. The first recipient keys
// the message so mail to one address stays ordered within a partition.
type MailPublisher struct {
	p *Producer
}

func NewMailPublisher(p *Producer) *MailPublisher { return &MailPublisher{p: p} }

func (mp *MailPublisher) Publish(ctx context.Context, m mail.Message) error {
	var key []byte
	if len(m.Recipients) > 0 {
		key = []byte(m.Recipients[0])
	}
	return mp.p.PublishJSON(ctx, key, m)
}
