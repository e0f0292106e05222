package alert_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tidehq/tide/pkg/alert"
	"github.com/tidehq/tide/pkg/notifications"
)

type fakePlayer struct {
	mu      sync.Mutex
	err     error
	calls   int
	volumes []float64
}

func (p *fakePlayer) Play(ctx context.Context, asset string, volume float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls += 1
	p.volumes = append(p.volumes, volume)
	return p.err
}

func (p *fakePlayer) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fakeOscillator struct {
	err   error
	calls int
}

func (o *fakeOscillator) Tone(ctx context.Context, freq float64, duration time.Duration) error {
	o.calls++
	return o.err
}

func soundNotif() notifications.Notification {
	return notifications.Notification{
		ID:     "n1",
		UserID: "u1",
		Type:   notifications.TypeCommentAdded,
	}
}

func TestSoundSink_Play(t *testing.T) {
	t.Parallel()

	t.Run("disabled preference produces no audio", func(t *testing.T) {
		player := &fakePlayer{}
		sink := alert.NewSoundSink(player, nil, nil)

		prefs := notifications.DefaultPreferences("u1")
		prefs.SoundEnabled = false

		played := sink.Play(context.Background(), soundNotif(), prefs)
		assert.False(t, played)
		assert.Zero(t, player.callCount())
	})

	t.Run("plays at preference volume", func(t *testing.T) {
		player := &fakePlayer{}
		sink := alert.NewSoundSink(player, nil, nil)

		prefs := notifications.DefaultPreferences("u1")
		prefs.SoundVolume = 80

		played := sink.Play(context.Background(), soundNotif(), prefs)
		assert.True(t, played)
		assert.Equal(t, []float64{0.8}, player.volumes)
	})

	t.Run("falls back to tone on playback failure", func(t *testing.T) {
		player := &fakePlayer{err: errors.New("autoplay blocked")}
		osc := &fakeOscillator{}
		sink := alert.NewSoundSink(player, osc, nil)

		played := sink.Play(context.Background(), soundNotif(), notifications.DefaultPreferences("u1"))
		assert.True(t, played)
		assert.Equal(t, 1, osc.calls)
	})

	t.Run("no fallback available", func(t *testing.T) {
		player := &fakePlayer{err: errors.New("autoplay blocked")}
		sink := alert.NewSoundSink(player, nil, nil)

		played := sink.Play(context.Background(), soundNotif(), notifications.DefaultPreferences("u1"))
		assert.False(t, played)
	})

	t.Run("both playback paths fail", func(t *testing.T) {
		player := &fakePlayer{err: errors.New("autoplay blocked")}
		osc := &fakeOscillator{err: errors.New("no audio context")}
		sink := alert.NewSoundSink(player, osc, nil)

		played := sink.Play(context.Background(), soundNotif(), notifications.DefaultPreferences("u1"))
		assert.False(t, played)
	})

	t.Run("nil player", func(t *testing.T) {
		sink := alert.NewSoundSink(nil, nil, nil)
		played := sink.Play(context.Background(), soundNotif(), notifications.DefaultPreferences("u1"))
		assert.False(t, played)
	})
}
