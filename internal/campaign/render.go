package campaign

import (
	"strings"

	"github.com/Mutter0815/ColdMailer/internal/store"
)

const (
	fallbackCompany  = "your company"
	fallbackPosition = "the position"
	fallbackJobID    = "N/A"
)

type Rendered struct {
	Subject string
	Body    string
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// RecipientName is the local part of addr.
func RecipientName(addr string) string {
	name, _, _ := strings.Cut(addr, "@")
	return name
}

// Render fills every placeholder occurrence in subject and body. Values are
// inserted verbatim.
func Render(t store.Template, recipient, senderName string, d CompanyDetails) Rendered {
	r := strings.NewReplacer(
		"{recipientName}", RecipientName(recipient),
		"{companyName}", orDefault(d.CompanyName, fallbackCompany),
		"{position}", orDefault(d.Position, fallbackPosition),
		"{jobId}", orDefault(d.JobID, fallbackJobID),
		"{senderName}", strings.TrimSpace(senderName),
	)
	return Rendered{
		Subject: r.Replace(t.Subject),
		Body:    r.Replace(t.Body),
	}
}
