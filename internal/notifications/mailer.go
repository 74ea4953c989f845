package notifications

import (
	"context"
	"errors"
)

var (
	// ErrInvalidConfig is returned when a sender is constructed with
	// incomplete configuration.
	ErrInvalidConfig = errors.New("notifications: invalid config")
	// ErrFailedToSend is returned when the provider rejects or fails delivery.
	ErrFailedToSend = errors.New("notifications: failed to send email")
)

// EmailSender delivers transactional email. Implementations must not be
// relied on for success: callers treat delivery as best-effort.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo   string
	Subject  string
	BodyHTML string
	Tag      string
}
