package alert

import (
	"context"
	"log/slog"

	"github.com/tidehq/tide/pkg/logger"
	"github.com/tidehq/tide/pkg/notifications"
)

// Dispatcher routes a newly delivered notification to the alert channels,
// each gated by the owner's preferences. Alerting is strictly best effort:
// nothing here ever fails the pipeline that triggered it.
type Dispatcher struct {
	prefs notifications.PreferencesStorage
	sound *SoundSink
	push  *PushSink
	email *EmailSink
	log   *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSoundSink attaches the audible-cue channel.
func WithSoundSink(s *SoundSink) DispatcherOption {
	return func(d *Dispatcher) { d.sound = s }
}

// WithPushSink attaches the platform-notification channel.
func WithPushSink(s *PushSink) DispatcherOption {
	return func(d *Dispatcher) { d.push = s }
}

// WithEmailSink attaches the invitation email channel.
func WithEmailSink(s *EmailSink) DispatcherOption {
	return func(d *Dispatcher) { d.email = s }
}

// WithDispatcherLogger sets the logger for the Dispatcher.
func WithDispatcherLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDispatcher creates a dispatcher reading preferences from prefs. All
// sinks are optional; an unattached channel is simply skipped.
func NewDispatcher(prefs notifications.PreferencesStorage, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		prefs: prefs,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notify runs the alert channels for one delivered notification. The
// sound cue runs first so the platform notification can be raised silent
// when audio already played.
func (d *Dispatcher) Notify(ctx context.Context, n notifications.Notification) {
	prefs, err := d.prefs.GetPreferences(ctx, n.UserID)
	if err != nil {
		// Fall back to defaults rather than dropping the alert entirely.
		d.log.WarnContext(ctx, "failed to load notification preferences",
			logger.Component("alert"),
			logger.UserID(n.UserID),
			logger.Error(err),
		)
		prefs = notifications.DefaultPreferences(n.UserID)
	}

	soundPlayed := false
	if d.sound != nil {
		soundPlayed = d.sound.Play(ctx, n, prefs)
	}
	if d.push != nil {
		d.push.Push(ctx, n, prefs, soundPlayed)
	}
	if d.email != nil {
		d.email.Send(ctx, n)
	}
}
