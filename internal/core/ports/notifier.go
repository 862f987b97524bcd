package ports

import "context"

// Notification is an outbound message carrying a token-derived link.
type Notification struct {
	To      string
	Subject string
	Body    string
}

// Notifier delivers a notification to its recipient. Implementations are
// transport adapters (SMTP in production, log output in development).
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
