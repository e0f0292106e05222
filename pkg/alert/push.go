package alert

import (
	"context"
	"log/slog"
	"time"

	"github.com/tidehq/tide/pkg/logger"
	"github.com/tidehq/tide/pkg/notifications"
)

// autoDismissAfter is how long a raised platform notification stays up
// without interaction before it is dismissed.
const autoDismissAfter = 5 * time.Second

// PushSink raises OS-level notifications. Permission denial is a normal,
// expected outcome and is logged, never returned as an error.
type PushSink struct {
	notifier  Notifier
	navigator Navigator
	presenter *notifications.Presenter
	log       *slog.Logger

	// dismissAfter is overridable for tests.
	dismissAfter time.Duration
}

// NewPushSink creates a platform-notification sink.
func NewPushSink(notifier Notifier, navigator Navigator, presenter *notifications.Presenter, log *slog.Logger) *PushSink {
	if log == nil {
		log = slog.Default()
	}
	return &PushSink{
		notifier:     notifier,
		navigator:    navigator,
		presenter:    presenter,
		log:          log,
		dismissAfter: autoDismissAfter,
	}
}

// Push raises a platform notification for n when the preference allows and
// permission was previously granted. soundPlayed suppresses the platform's
// own sound so the user does not hear the cue twice.
func (s *PushSink) Push(ctx context.Context, n notifications.Notification, prefs notifications.Preferences, soundPlayed bool) {
	if !prefs.BrowserEnabled || s.notifier == nil {
		return
	}

	if perm := s.notifier.Permission(ctx); perm != PermissionGranted {
		s.log.WarnContext(ctx, "platform notification skipped: permission not granted",
			logger.Component("alert"),
			logger.NotificationID(n.ID),
			slog.String("permission", string(perm)),
		)
		return
	}

	target := s.presenter.Target(n)
	handle, err := s.notifier.Push(ctx, Note{
		Title:  s.presenter.Title(n),
		Body:   s.presenter.Body(n),
		Icon:   "/icons/tide-192.png",
		Tag:    n.ID, // repeated delivery of the same id replaces, not stacks
		Target: target,
		Silent: soundPlayed,
	})
	if err != nil {
		s.log.WarnContext(ctx, "failed to raise platform notification",
			logger.Component("alert"),
			logger.NotificationID(n.ID),
			logger.Error(err),
		)
		return
	}

	handle.OnClick(func() {
		if s.navigator != nil {
			s.navigator.Focus()
			s.navigator.Navigate(target)
		}
		_ = handle.Close()
	})

	// Auto-dismiss if the user does not interact. Close is idempotent, so
	// racing with the click callback is harmless.
	time.AfterFunc(s.dismissAfter, func() {
		_ = handle.Close()
	})
}
