package notifications

import "errors"

var (
	// ErrSendFailed indicates a notification could not be persisted.
	ErrSendFailed = errors.New("failed to send notification")
	// ErrStreamingUnsupported indicates the response writer cannot flush,
	// which server-sent events require.
	ErrStreamingUnsupported = errors.New("response writer does not support streaming")
)
