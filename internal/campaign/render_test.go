package campaign

import (
	"testing"

	"github.com/Mutter0815/ColdMailer/internal/store"
)

func TestRender_AllPlaceholders(t *testing.T) {
	tpl := store.Template{
		Subject: "{position} at {companyName}",
		Body:    "Hi {recipientName}, re {position} at {companyName} ({jobId})",
	}
	got := Render(tpl, "alice@x.com", "", CompanyDetails{CompanyName: "Acme", Position: "Eng", JobID: "J1"})

	if got.Body != "Hi alice, re Eng at Acme (J1)" {
		t.Fatalf("body=%q", got.Body)
	}
	if got.Subject != "Eng at Acme" {
		t.Fatalf("subject=%q", got.Subject)
	}
}

func TestRender_Fallbacks(t *testing.T) {
	tpl := store.Template{Body: "{companyName}|{position}|{jobId}"}

	cases := []struct {
		name string
		d    CompanyDetails
		want string
	}{
		{"empty", CompanyDetails{}, "your company|the position|N/A"},
		{"blank", CompanyDetails{CompanyName: "  ", Position: "\t", JobID: " "}, "your company|the position|N/A"},
		{"partial", CompanyDetails{CompanyName: "Acme"}, "Acme|the position|N/A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Render(tpl, "a@b.c", "", tc.d).Body; got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRender_EveryOccurrence(t *testing.T) {
	tpl := store.Template{Body: "{recipientName} {recipientName} {companyName}{companyName}"}
	got := Render(tpl, "bob@y.org", "", CompanyDetails{CompanyName: "Z"}).Body
	if got != "bob bob ZZ" {
		t.Fatalf("got %q", got)
	}
}

func TestRender_NoRecursiveSubstitution(t *testing.T) {
	tpl := store.Template{Body: "{companyName}"}
	got := Render(tpl, "a@b.c", "", CompanyDetails{CompanyName: "{position}<b>"}).Body
	if got != "{position}<b>" {
		t.Fatalf("inserted values must be verbatim, got %q", got)
	}
}

func TestRender_SenderName(t *testing.T) {
	tpl := store.Template{Body: "Regards,\n{senderName}"}
	if got := Render(tpl, "a@b.c", " Jane Doe ", CompanyDetails{}).Body; got != "Regards,\nJane Doe" {
		t.Fatalf("got %q", got)
	}
}

func TestRecipientName(t *testing.T) {
	cases := map[string]string{
		"alice@x.com":     "alice",
		"first.last@x.io": "first.last",
		"noat":            "noat",
	}
	for in, want := range cases {
		if got := RecipientName(in); got != want {
			t.Fatalf("RecipientName(%q)=%q, want %q", in, got, want)
		}
	}
}
