package feed

import "errors"

var (
	// ErrFeedClosed is returned when operations are attempted on a closed feed.
	ErrFeedClosed = errors.New("feed: closed")
)
