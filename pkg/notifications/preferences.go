package notifications

// Preferences holds per-user alerting settings, one row per user.
type Preferences struct {
	UserID         string `json:"user_id"`
	SoundEnabled   bool   `json:"sound_enabled"`
	BrowserEnabled bool   `json:"browser_enabled"`
	SoundVolume    int    `json:"sound_volume"` // percentage, 0-100
}

// DefaultPreferences returns the settings applied before a user has saved
// any: both alert channels on, sound at half volume.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:         userID,
		SoundEnabled:   true,
		BrowserEnabled: true,
		SoundVolume:    50,
	}
}

// PlaybackVolume converts the 0-100 preference value to a 0.0-1.0 playback
// volume, clamping out-of-range values.
func (p Preferences) PlaybackVolume() float64 {
	v := p.SoundVolume
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return float64(v) / 100
}
