// Package alert turns newly delivered notifications into out-of-band
// alerts: an audible cue, an OS-level notification, and, for space
// invitations, a transactional email. Each channel is gated independently
// by the owner's notification preferences.
//
// Every channel is best effort. Sound playback falls back to a
// synthesized tone and then to a logged warning; platform-notification
// permission denial is an expected outcome, not an error; email failures
// are logged and dropped. Nothing in this package propagates an error to
// the delivery path that triggered it.
//
// Platform specifics (audio playback, the OS notification surface, window
// focus) sit behind the Player, Oscillator, Notifier, and Navigator
// interfaces so the embedding shell supplies them.
package alert
