package campaign

import (
	"fmt"
	"strings"
)

// recipients trims entries and drops those without "@".
func recipients(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.TrimSpace(e)
		if strings.Contains(e, "@") {
			out = append(out, e)
		}
	}
	return out
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Validate returns the usable recipient list or an ErrInvalidRequest.
func (r Request) Validate() ([]string, error) {
	if !r.EmailType.Valid() {
		return nil, fmt.Errorf("%w: unknown emailType %q", ErrInvalidRequest, r.EmailType)
	}
	if r.DaysToDelay < 0 || r.DaysToDelay > MaxDelayDays {
		return nil, fmt.Errorf("%w: daysToDelay must be between 0 and %d", ErrInvalidRequest, MaxDelayDays)
	}

	d := r.CompanyDetails
	var missing []string
	switch r.EmailType {
	case TypeReferral:
		if blank(d.CompanyName) {
			missing = append(missing, "companyName")
		}
		if blank(d.Position) {
			missing = append(missing, "position")
		}
		if blank(d.JobID) {
			missing = append(missing, "jobId")
		}
	case TypeHR:
		if blank(d.CompanyName) {
			missing = append(missing, "companyName")
		}
		if blank(d.Position) {
			missing = append(missing, "position")
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s required for %s emails", ErrInvalidRequest, strings.Join(missing, ", "), r.EmailType)
	}

	emails := recipients(r.Emails)
	if len(emails) == 0 {
		return nil, fmt.Errorf("%w: no valid email addresses", ErrInvalidRequest)
	}
	return emails, nil
}
