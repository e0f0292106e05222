package email

import (
	"context"
	"log/slog"
)

// DevSender logs emails instead of sending them. Used in development
// environments where Postmark tokens are not configured.
type DevSender struct {
	log *slog.Logger
}

// NewDevSender creates a Sender that writes emails to the logger.
func NewDevSender(log *slog.Logger) *DevSender {
	if log == nil {
		log = slog.Default()
	}
	return &DevSender{log: log}
}

func (s *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "dev email sender: email not sent",
		slog.String("to", params.SendTo),
		slog.String("subject", params.Subject),
		slog.String("tag", params.Tag),
	)
	return nil
}
