package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/tidehq/tide/pkg/logger"
	"github.com/tidehq/tide/pkg/notifications"
)

const channelPrefix = "tide:notifications:"

// RedisFeed is a Feed implementation backed by Redis pub/sub, so realtime
// events reach subscribers connected to any application instance.
type RedisFeed struct {
	client     *redis.Client
	bufferSize int
	log        *slog.Logger

	mu     sync.Mutex
	closed bool
	subs   map[*redisSubscription]struct{}
}

// RedisFeedOption configures a RedisFeed.
type RedisFeedOption func(*RedisFeed)

// WithRedisFeedLogger sets the logger for the RedisFeed.
func WithRedisFeedLogger(log *slog.Logger) RedisFeedOption {
	return func(f *RedisFeed) {
		if log != nil {
			f.log = log
		}
	}
}

// NewRedisFeed creates a Redis-backed feed. The buffer size applies to
// each subscription's local event channel.
func NewRedisFeed(client *redis.Client, bufferSize int, opts ...RedisFeedOption) *RedisFeed {
	f := &RedisFeed{
		client:     client,
		bufferSize: max(bufferSize, 1),
		log:        slog.Default(),
		subs:       make(map[*redisSubscription]struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *RedisFeed) Publish(ctx context.Context, n notifications.Notification) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFeedClosed
	}
	f.mu.Unlock()

	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, channelPrefix+n.UserID, payload).Err()
}

func (f *RedisFeed) Subscribe(ctx context.Context, userID string) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrFeedClosed
	}

	pubsub := f.client.Subscribe(ctx, channelPrefix+userID)
	sub := &redisSubscription{
		feed:   f,
		pubsub: pubsub,
		ch:     make(chan notifications.Notification, f.bufferSize),
	}
	f.subs[sub] = struct{}{}

	go sub.pump(ctx, f.log)

	return sub, nil
}

// Close closes the feed and all its subscriptions. Safe to call multiple
// times.
func (f *RedisFeed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	subs := make([]*redisSubscription, 0, len(f.subs))
	for sub := range f.subs {
		subs = append(subs, sub)
	}
	clear(f.subs)
	f.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	return nil
}

func (f *RedisFeed) remove(sub *redisSubscription) {
	f.mu.Lock()
	delete(f.subs, sub)
	f.mu.Unlock()
}

type redisSubscription struct {
	feed   *RedisFeed
	pubsub *redis.PubSub
	ch     chan notifications.Notification
	once   sync.Once
}

func (s *redisSubscription) Events() <-chan notifications.Notification {
	return s.ch
}

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		s.feed.remove(s)
		// Closing the PubSub ends the pump goroutine, which closes s.ch.
		err = s.pubsub.Close()
	})
	return err
}

// pump decodes wire messages into the event channel until the PubSub is
// closed or ctx is cancelled. Messages that fail to decode are logged and
// skipped; a malformed message must not kill the stream.
func (s *redisSubscription) pump(ctx context.Context, log *slog.Logger) {
	defer close(s.ch)

	msgs := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = s.Close()
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var n notifications.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				log.WarnContext(ctx, "failed to decode notification from feed",
					logger.Component("feed"),
					logger.Error(err),
				)
				continue
			}
			select {
			case s.ch <- n:
			default:
				// Drop for slow consumers, matching MemoryFeed semantics.
			}
		}
	}
}
