package alert

import (
	"context"
	"time"
)

// Player plays a bundled audio asset at the given 0.0-1.0 volume.
type Player interface {
	Play(ctx context.Context, asset string, volume float64) error
}

// Oscillator synthesizes a short fixed-frequency tone. Used as a fallback
// when asset playback is unavailable (platform autoplay restrictions).
type Oscillator interface {
	Tone(ctx context.Context, freq float64, duration time.Duration) error
}

// Permission is the platform notification permission state.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// Note describes a platform-level notification to raise.
type Note struct {
	Title  string
	Body   string
	Icon   string
	Tag    string // de-duplication tag; repeated pushes with the same tag replace
	Target string // in-app destination opened on click
	Silent bool   // suppress the platform's own sound
}

// Handle refers to a raised platform notification.
type Handle interface {
	// OnClick registers the click callback. May be called at most once.
	OnClick(fn func())

	// Close dismisses the notification. Idempotent.
	Close() error
}

// Notifier raises OS-level notifications.
type Notifier interface {
	// Permission reports the current grant state without prompting.
	Permission(ctx context.Context) Permission

	// Push raises a notification and returns its handle.
	Push(ctx context.Context, note Note) (Handle, error)
}

// Navigator focuses the application window and navigates it to an in-app
// destination.
type Navigator interface {
	Focus()
	Navigate(target string)
}
