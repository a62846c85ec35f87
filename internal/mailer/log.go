package mailer

import (
	"context"
	"log/slog"

	"github.com/outreach/internal/model"
)

// LogTransport logs messages instead of sending them. Meant for development
// and dry runs.
type LogTransport struct {
	logger *slog.Logger
}

func NewLogTransport(logger *slog.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Send(ctx context.Context, sender, _ string, msg model.Message) error {
	attrs := []any{
		"from", sender,
		"to", msg.To,
		"subject", msg.Subject,
		"body_bytes", len(msg.Body),
	}
	if msg.Attachment != nil {
		attrs = append(attrs, "attachment", msg.Attachment.Filename, "attachment_bytes", len(msg.Attachment.Data))
	}
	t.logger.InfoContext(ctx, "mailer: message logged, not sent", attrs...)
	return nil
}
