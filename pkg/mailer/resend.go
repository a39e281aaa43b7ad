package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers through the Resend HTTP API.
type ResendSender struct {
	client *resend.Client
	apiKey string
}

func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), apiKey: apiKey}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    fromHeader(msg),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Body,
	}
	for _, a := range msg.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Content:     a.Content,
			Filename:    a.Filename,
			ContentType: a.ContentType,
		})
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return &DeliveryError{Message: fmt.Sprintf("resend: %v", err)}
	}
	return nil
}

// Probe lists domains, which fails fast on a bad API key.
func (s *ResendSender) Probe(ctx context.Context) error {
	if s.apiKey == "" {
		return fmt.Errorf("%w: api key is empty", ErrAuth)
	}
	if _, err := s.client.Domains.ListWithContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return nil
}
