package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopstack/accounts-api/internal/core/ports"
)

// LogNotifier writes notifications to the log instead of delivering them.
// Used in development when no SMTP relay is configured, so verification and
// reset links remain reachable from the console.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(_ context.Context, msg ports.Notification) error {
	n.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("notification (log transport)")
	return nil
}
