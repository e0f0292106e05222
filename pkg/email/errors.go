package email

import "errors"

var (
	// ErrInvalidConfig is returned when the email configuration is incomplete.
	ErrInvalidConfig = errors.New("invalid email config")

	// ErrInvalidParams is returned when send parameters fail validation.
	ErrInvalidParams = errors.New("invalid email params")

	// ErrFailedToSendEmail wraps provider errors.
	ErrFailedToSendEmail = errors.New("failed to send email")
)
