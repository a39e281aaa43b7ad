package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// SMTPSender submits mail to an authenticated relay (Gmail by default).
type SMTPSender struct {
	addr     string
	username string
	password string
	dial     func(addr string) (*smtp.Client, error)
	now      func() time.Time
}

func NewSMTPSender(addr, username, password string) *SMTPSender {
	return &SMTPSender{
		addr:     addr,
		username: username,
		password: password,
		dial:     dialStartTLS,
		now:      time.Now,
	}
}

func dialStartTLS(addr string) (*smtp.Client, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	return smtp.DialStartTLS(addr, &tls.Config{ServerName: host})
}

func (s *SMTPSender) connect(ctx context.Context) (*smtp.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := s.dial(s.addr)
	if err != nil {
		return nil, &DeliveryError{Temporary: true, Message: fmt.Sprintf("connect %s: %v", s.addr, err)}
	}
	if err := c.Auth(sasl.NewPlainClient("", s.username, s.password)); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return c, nil
}

// Send opens a fresh session per message; batches are spaced minutes apart.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	data, err := buildMIME(msg, s.now())
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	c, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.SendMail(msg.From, []string{msg.To}, bytes.NewReader(data)); err != nil {
		return classify(err)
	}
	_ = c.Quit()
	return nil
}

// Probe authenticates against the relay and quits.
func (s *SMTPSender) Probe(ctx context.Context) error {
	c, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Quit()
}

func classify(err error) error {
	var se *smtp.SMTPError
	if errors.As(err, &se) {
		return &DeliveryError{
			Temporary: se.Code/100 == 4,
			Message:   fmt.Sprintf("smtp %d: %s", se.Code, se.Message),
		}
	}
	return &DeliveryError{Temporary: true, Message: err.Error()}
}
