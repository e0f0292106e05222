package alert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tidehq/tide/pkg/email"
	"github.com/tidehq/tide/pkg/logger"
	"github.com/tidehq/tide/pkg/notifications"
)

// EmailSink mirrors space invitations to the invitee's mailbox. Other
// notification types pass through untouched; realtime and platform alerts
// already cover them.
type EmailSink struct {
	sender    email.Sender
	presenter *notifications.Presenter
	log       *slog.Logger
}

// NewEmailSink creates an invitation email sink.
func NewEmailSink(sender email.Sender, presenter *notifications.Presenter, log *slog.Logger) *EmailSink {
	if log == nil {
		log = slog.Default()
	}
	return &EmailSink{sender: sender, presenter: presenter, log: log}
}

// Send emails the invitee for space_invited notifications. Best effort:
// failures are logged and never propagated.
func (s *EmailSink) Send(ctx context.Context, n notifications.Notification) {
	if s.sender == nil || n.Type != notifications.TypeSpaceInvited {
		return
	}

	payload, _ := n.Data.(notifications.SpaceInvitedPayload)
	if payload.InviteeEmail == "" {
		return
	}

	err := s.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:  payload.InviteeEmail,
		Subject: s.presenter.Title(n),
		BodyHTML: fmt.Sprintf("<p>%s</p><p><a href=%q>Open tide</a></p>",
			s.presenter.Body(n), s.presenter.Target(n)),
		Tag: "space-invitation",
	})
	if err != nil {
		s.log.WarnContext(ctx, "failed to send invitation email",
			logger.Component("alert"),
			logger.NotificationID(n.ID),
			logger.Error(err),
		)
	}
}
