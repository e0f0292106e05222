package alert

import (
	"context"
	"log/slog"
	"time"

	"github.com/tidehq/tide/pkg/logger"
	"github.com/tidehq/tide/pkg/notifications"
)

const (
	soundAsset = "sounds/notification.mp3"

	// Fallback tone parameters when asset playback is unavailable.
	fallbackToneFreq     = 880.0
	fallbackToneDuration = 200 * time.Millisecond
)

// SoundSink plays the audible notification cue. Playback failure is never
// an error for the caller: the sink falls back to a synthesized tone, and
// if that fails too it logs and gives up.
type SoundSink struct {
	player     Player
	oscillator Oscillator
	log        *slog.Logger
}

// NewSoundSink creates a sound sink. The oscillator may be nil, in which
// case there is no fallback for failed asset playback.
func NewSoundSink(player Player, oscillator Oscillator, log *slog.Logger) *SoundSink {
	if log == nil {
		log = slog.Default()
	}
	return &SoundSink{player: player, oscillator: oscillator, log: log}
}

// Play attempts the audible cue at the volume derived from prefs. It
// reports whether any sound was actually produced, so the push sink can
// silence the platform notification and avoid double audio.
func (s *SoundSink) Play(ctx context.Context, n notifications.Notification, prefs notifications.Preferences) bool {
	if !prefs.SoundEnabled || s.player == nil {
		return false
	}

	if err := s.player.Play(ctx, soundAsset, prefs.PlaybackVolume()); err == nil {
		return true
	} else if s.oscillator == nil {
		s.log.WarnContext(ctx, "notification sound failed, no fallback available",
			logger.Component("alert"),
			logger.NotificationID(n.ID),
			logger.Error(err),
		)
		return false
	}

	if err := s.oscillator.Tone(ctx, fallbackToneFreq, fallbackToneDuration); err != nil {
		s.log.WarnContext(ctx, "notification sound and fallback tone both failed",
			logger.Component("alert"),
			logger.NotificationID(n.ID),
			logger.Error(err),
		)
		return false
	}
	return true
}
