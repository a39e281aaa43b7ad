package campaign

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     Request
		want    int
		wantErr bool
	}{
		{"cold ok", Request{Emails: []string{"a@x.com", " b@y.com "}, EmailType: TypeCold}, 2, false},
		{"drops entries without at", Request{Emails: []string{"a@x.com", "nope", ""}, EmailType: TypeCold}, 1, false},
		{"all invalid", Request{Emails: []string{"nope", "also-no"}, EmailType: TypeCold}, 0, true},
		{"empty list", Request{EmailType: TypeCold}, 0, true},
		{"unknown type", Request{Emails: []string{"a@x.com"}, EmailType: "spam"}, 0, true},
		{"days too high", Request{Emails: []string{"a@x.com"}, EmailType: TypeCold, DaysToDelay: 31}, 0, true},
		{"days negative", Request{Emails: []string{"a@x.com"}, EmailType: TypeCold, DaysToDelay: -1}, 0, true},
		{"referral missing job", Request{
			Emails: []string{"a@x.com"}, EmailType: TypeReferral,
			CompanyDetails: CompanyDetails{CompanyName: "Acme", Position: "Eng"},
		}, 0, true},
		{"referral ok", Request{
			Emails: []string{"a@x.com"}, EmailType: TypeReferral,
			CompanyDetails: CompanyDetails{CompanyName: "Acme", Position: "Eng", JobID: "J1"},
		}, 1, false},
		{"hr missing position", Request{
			Emails: []string{"a@x.com"}, EmailType: TypeHR,
			CompanyDetails: CompanyDetails{CompanyName: "Acme"},
		}, 0, true},
		{"hr ok", Request{
			Emails: []string{"a@x.com"}, EmailType: TypeHR,
			CompanyDetails: CompanyDetails{CompanyName: "Acme", Position: "Eng"},
		}, 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.req.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Fatalf("want ErrInvalidRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tc.want {
				t.Fatalf("want %d recipients, got %v", tc.want, got)
			}
		})
	}
}
