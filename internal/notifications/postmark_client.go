package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

type postmarkClient struct {
	client *postmark.Client
	sender string
}

// NewPostmarkClient creates a Postmark-backed email sender.
func NewPostmarkClient(serverToken, accountToken, sender string) (EmailSender, error) {
	if serverToken == "" {
		return nil, fmt.Errorf("%w: server token is required", ErrInvalidConfig)
	}
	if accountToken == "" {
		return nil, fmt.Errorf("%w: account token is required", ErrInvalidConfig)
	}
	if sender == "" {
		return nil, fmt.Errorf("%w: sender address is required", ErrInvalidConfig)
	}

	return &postmarkClient{
		client: postmark.NewClient(serverToken, accountToken),
		sender: sender,
	}, nil
}

// SendEmail implements EmailSender using Postmark's transactional API.
func (c *postmarkClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	resp, err := c.client.SendEmail(ctx, postmark.Email{
		From:       c.sender,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
	})
	if err != nil {
		return errors.Join(ErrFailedToSend, err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w: postmark error %d: %s", ErrFailedToSend, resp.ErrorCode, resp.Message)
	}

	return nil
}
