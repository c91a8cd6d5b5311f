package mail

import "context"

// Message is the broker payload for a single outgoing email.
type Message struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

// Publisher is the best-effort async dispatch port. Delivery, retry and
// dead-lettering are owned by the notifier worker on the other side of the
// broker; a publish failure must not fail the triggering request.
type Publisher interface {
	Publish(ctx context.Context, m Message) error
}

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}
