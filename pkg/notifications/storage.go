package notifications

import (
	"context"
	"time"
)

// BulkAction selects the mutation applied by Storage.BulkUpdate.
type BulkAction string

const (
	BulkActionRead   BulkAction = "read"
	BulkActionDelete BulkAction = "delete"
)

// Valid reports whether a is a known bulk action.
func (a BulkAction) Valid() bool {
	return a == BulkActionRead || a == BulkActionDelete
}

// ListOptions provides filtering and pagination for listing notifications.
// Results are always ordered by creation time, newest first.
type ListOptions struct {
	Limit      int        // Maximum number of notifications to return (0 = no limit)
	Offset     int        // Number of notifications to skip for pagination
	OnlyUnread bool       // When true, only return unread notifications
	Types      []Type     // If specified, only return notifications of these types
	Since      *time.Time // If specified, only return notifications created after this time
}

// Storage handles notification persistence and retrieval. All operations
// are scoped to a single user; a user can never see or mutate another
// user's rows.
type Storage interface {
	// Create stores a new notification.
	Create(ctx context.Context, notif Notification) error

	// Get retrieves a single notification.
	Get(ctx context.Context, userID, notifID string) (*Notification, error)

	// List returns notifications for a user, newest first.
	List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error)

	// MarkRead marks the given notification(s) as read. Marking an
	// already-read notification is a no-op; ErrNotificationNotFound is
	// returned when none of the ids exist for the user.
	MarkRead(ctx context.Context, userID string, notifIDs ...string) error

	// MarkAllRead marks every unread notification as read and returns the
	// number of rows affected.
	MarkAllRead(ctx context.Context, userID string) (int, error)

	// BulkUpdate applies action (read or delete) to the given ids and
	// returns the number of rows affected.
	BulkUpdate(ctx context.Context, userID string, action BulkAction, notifIDs []string) (int, error)

	// Delete removes notification(s). ErrNotificationNotFound is returned
	// when none of the ids exist for the user.
	Delete(ctx context.Context, userID string, notifIDs ...string) error

	// CountUnread returns the unread count for a user.
	CountUnread(ctx context.Context, userID string) (int, error)
}

// PreferencesStorage persists per-user alerting preferences.
type PreferencesStorage interface {
	// GetPreferences returns the user's saved preferences, or
	// DefaultPreferences when the user has never saved any.
	GetPreferences(ctx context.Context, userID string) (Preferences, error)

	// SavePreferences upserts the user's preferences row.
	SavePreferences(ctx context.Context, prefs Preferences) error
}
