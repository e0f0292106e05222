package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tidehq/tide/pkg/logger"
	"github.com/tidehq/tide/pkg/notifications"
)

// Listener maintains at most one live feed subscription per user session.
// Requesting a new subscription tears the previous one down first, so a
// remount can never produce duplicate delivery.
type Listener struct {
	feed     Feed
	identity IdentityResolver
	log      *slog.Logger

	mu     sync.Mutex
	active *handle
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

// WithListenerLogger sets the logger for the Listener.
func WithListenerLogger(log *slog.Logger) ListenerOption {
	return func(l *Listener) {
		if log != nil {
			l.log = log
		}
	}
}

// NewListener creates a listener over the given feed. Identity is resolved
// per subscription, not at construction, because the signed-in user can
// change over the listener's lifetime.
func NewListener(f Feed, identity IdentityResolver, opts ...ListenerOption) *Listener {
	l := &Listener{
		feed:     f,
		identity: identity,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Subscribe starts delivering the current user's notifications to
// onNotification and returns an unsubscribe function. Identity is resolved
// asynchronously before the channel opens, so there is a window after
// Subscribe returns during which no events are delivered yet. If identity
// resolution fails the subscription is silently a no-op: not
// authenticated means nothing to deliver.
//
// The returned unsubscribe is idempotent and safe to call before the
// underlying channel was established.
func (l *Listener) Subscribe(ctx context.Context, onNotification func(notifications.Notification)) (unsubscribe func()) {
	subCtx, cancel := context.WithCancel(ctx)
	h := &handle{cancel: cancel}

	l.mu.Lock()
	if l.active != nil {
		l.active.close()
	}
	l.active = h
	l.mu.Unlock()

	go l.run(subCtx, h, onNotification)

	return h.close
}

// Unsubscribe tears down the active subscription, if any. Idempotent.
func (l *Listener) Unsubscribe() {
	l.mu.Lock()
	h := l.active
	l.active = nil
	l.mu.Unlock()

	if h != nil {
		h.close()
	}
}

func (l *Listener) run(ctx context.Context, h *handle, onNotification func(notifications.Notification)) {
	userID, err := l.identity.CurrentUserID(ctx)
	if err != nil {
		l.log.DebugContext(ctx, "realtime feed not started: no authenticated user",
			logger.Component("feed"),
			logger.Error(err),
		)
		return
	}

	sub, err := l.feed.Subscribe(ctx, userID)
	if err != nil {
		l.log.ErrorContext(ctx, "failed to subscribe to notification feed",
			logger.Component("feed"),
			logger.UserID(userID),
			logger.Error(err),
		)
		return
	}

	// Unsubscribe may have fired while identity was resolving; attach the
	// subscription to the handle only if it is still live.
	if !h.attach(sub) {
		_ = sub.Close()
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-sub.Events():
			if !ok {
				return
			}
			onNotification(n)
		}
	}
}

// handle tracks one subscription attempt. close is idempotent via
// sync.Once and works at any point in the attempt's lifecycle.
type handle struct {
	cancel context.CancelFunc

	mu     sync.Mutex
	sub    Subscription
	closed bool
	once   sync.Once
}

func (h *handle) attach(sub Subscription) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.sub = sub
	return true
}

func (h *handle) close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		sub := h.sub
		h.mu.Unlock()

		h.cancel()
		if sub != nil {
			_ = sub.Close()
		}
	})
}
