package notifications

import "errors"

var (
	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidNotification is returned when a notification is missing
	// required fields.
	ErrInvalidNotification = errors.New("invalid notification")

	// ErrUnknownBulkAction is returned for bulk actions outside the
	// read/delete set.
	ErrUnknownBulkAction = errors.New("unknown bulk action")
)
