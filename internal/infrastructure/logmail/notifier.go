// Package logmail provides a notifier that writes messages to the log
// instead of delivering them. Intended for local development and tests.
package logmail

import (
	"context"
	"log/slog"
)

type Notifier struct {
	logger *slog.Logger
}

// New returns a Notifier writing to logger, or to slog.Default when nil.
func New(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{logger: logger}
}

func (n *Notifier) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	n.logger.InfoContext(ctx, "email not delivered, logging instead",
		"to", to, "subject", subject, "content", htmlBody)
	return nil
}
