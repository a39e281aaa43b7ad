package mailer

import (
	"context"

	"github.com/Mutter0815/ColdMailer/pkg/logx"
)

// LogSender only logs; used for local runs without a provider.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	logx.L().Infow("mail_logged",
		"from", fromHeader(msg),
		"to", msg.To,
		"subject", msg.Subject,
		"attachments", len(msg.Attachments),
	)
	return nil
}

func (LogSender) Probe(context.Context) error { return nil }
