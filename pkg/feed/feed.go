package feed

import (
	"context"

	"github.com/tidehq/tide/pkg/notifications"
)

// Feed delivers newly created notifications to per-user subscribers in
// real time. Implementations must drop messages for slow consumers rather
// than blocking publishers.
type Feed interface {
	// Publish fans a notification out to every subscriber of its owner.
	Publish(ctx context.Context, n notifications.Notification) error

	// Subscribe opens a stream of the given user's notifications. The
	// subscription is also cleaned up when ctx is cancelled.
	Subscribe(ctx context.Context, userID string) (Subscription, error)

	// Close shuts the feed down and closes all subscriptions.
	Close() error
}

// Subscription is a live per-user notification stream.
type Subscription interface {
	// Events returns the receive channel. It is closed when the
	// subscription ends.
	Events() <-chan notifications.Notification

	// Close ends the subscription and releases resources. Idempotent and
	// safe to call even if the underlying channel was never established.
	Close() error
}

// IdentityResolver reports the currently signed-in user. An error means
// "not authenticated"; the listener treats it as nothing to deliver.
type IdentityResolver interface {
	CurrentUserID(ctx context.Context) (string, error)
}
