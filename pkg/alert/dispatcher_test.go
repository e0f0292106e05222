package alert_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/tidehq/tide/pkg/alert"
	"github.com/tidehq/tide/pkg/notifications"
)

type failingPrefs struct{}

func (failingPrefs) GetPreferences(ctx context.Context, userID string) (notifications.Preferences, error) {
	return notifications.Preferences{}, errors.New("prefs unavailable")
}

func (failingPrefs) SavePreferences(ctx context.Context, prefs notifications.Preferences) error {
	return errors.New("prefs unavailable")
}

func savePrefs(t *testing.T, store *notifications.MemoryStorage, prefs notifications.Preferences) {
	t.Helper()
	require.NoError(t, store.SavePreferences(context.Background(), prefs))
}

func TestDispatcher_Notify(t *testing.T) {
	t.Parallel()

	pr := notifications.NewPresenter(language.English)

	t.Run("sound off browser on produces no audio and one silent-free push", func(t *testing.T) {
		store := notifications.NewMemoryStorage()
		savePrefs(t, store, notifications.Preferences{
			UserID:         "u1",
			SoundEnabled:   false,
			BrowserEnabled: true,
			SoundVolume:    50,
		})

		player := &fakePlayer{}
		notifier := &fakeNotifier{perm: alert.PermissionGranted}

		d := alert.NewDispatcher(store,
			alert.WithSoundSink(alert.NewSoundSink(player, nil, nil)),
			alert.WithPushSink(alert.NewPushSink(notifier, nil, pr, nil)),
		)

		d.Notify(context.Background(), pushNotif())

		assert.Zero(t, player.callCount())
		notes := notifier.pushedNotes()
		require.Len(t, notes, 1)
		assert.False(t, notes[0].Silent)
	})

	t.Run("played sound silences the push", func(t *testing.T) {
		store := notifications.NewMemoryStorage()
		savePrefs(t, store, notifications.DefaultPreferences("u1"))

		player := &fakePlayer{}
		notifier := &fakeNotifier{perm: alert.PermissionGranted}

		d := alert.NewDispatcher(store,
			alert.WithSoundSink(alert.NewSoundSink(player, nil, nil)),
			alert.WithPushSink(alert.NewPushSink(notifier, nil, pr, nil)),
		)

		d.Notify(context.Background(), pushNotif())

		assert.Equal(t, 1, player.callCount())
		notes := notifier.pushedNotes()
		require.Len(t, notes, 1)
		assert.True(t, notes[0].Silent)
	})

	t.Run("preference load failure falls back to defaults", func(t *testing.T) {
		player := &fakePlayer{}
		notifier := &fakeNotifier{perm: alert.PermissionGranted}

		d := alert.NewDispatcher(failingPrefs{},
			alert.WithSoundSink(alert.NewSoundSink(player, nil, nil)),
			alert.WithPushSink(alert.NewPushSink(notifier, nil, pr, nil)),
		)

		d.Notify(context.Background(), pushNotif())

		// Defaults enable both channels.
		assert.Equal(t, 1, player.callCount())
		assert.Len(t, notifier.pushedNotes(), 1)
	})

	t.Run("invitation reaches the email sink", func(t *testing.T) {
		store := notifications.NewMemoryStorage()
		sender := &fakeSender{}

		d := alert.NewDispatcher(store,
			alert.WithEmailSink(alert.NewEmailSink(sender, pr, nil)),
		)

		d.Notify(context.Background(), notifications.Notification{
			ID:     "n1",
			UserID: "u1",
			Type:   notifications.TypeSpaceInvited,
			Data: notifications.SpaceInvitedPayload{
				Actor:        "alice",
				SpaceName:    "Design",
				InviteeEmail: "bob@example.com",
			},
		})

		require.Len(t, sender.sentParams(), 1)
	})

	t.Run("no sinks attached is a no-op", func(t *testing.T) {
		store := notifications.NewMemoryStorage()
		d := alert.NewDispatcher(store)

		assert.NotPanics(t, func() {
			d.Notify(context.Background(), pushNotif())
		})
	})
}
