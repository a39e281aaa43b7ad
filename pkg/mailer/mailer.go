// Package mailer delivers single personalized messages through a mail provider.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// ErrAuth is returned when the provider rejects the configured credentials.
var ErrAuth = errors.New("mail provider authentication failed")

// DeliveryError represents a failed delivery attempt
type DeliveryError struct {
	Temporary bool
	Message   string
}

func (e *DeliveryError) Error() string {
	return e.Message
}

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	From        string
	FromName    string
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Sender delivers one message. Probe checks credentials without sending.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Probe(ctx context.Context) error
}

// LoadAttachment reads a file from disk, guessing its content type from the extension.
func LoadAttachment(path string) (*Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &Attachment{
		Filename:    filepath.Base(path),
		ContentType: ct,
		Content:     data,
	}, nil
}
