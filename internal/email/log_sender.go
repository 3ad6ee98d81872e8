package email

import (
	"context"
	"log/slog"

	"a2admin/pkg/platform/privacy"
)

// LogSender stands in for a real provider when none is configured: it
// validates and logs the message instead of delivering it.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "email not delivered: no provider configured",
		"to", privacy.MaskEmail(msg.To),
		"subject", msg.Subject,
		"tag", msg.Tag,
	)
	return nil
}
