package slots

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

func TestNormalizeSize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "hyphenated", in: "2-bedroom", want: "2-bedroom"},
		{name: "spaced", in: "3 bedroom", want: "3-bedroom"},
		{name: "bed apartment", in: "1-bed apartment", want: "1-bedroom"},
		{name: "bare bed", in: "4 bed", want: "4-bedroom"},
		{name: "mixed case", in: "2 Bedroom Apartment", want: "2-bedroom"},
		{name: "studio", in: "a small studio", want: "studio"},
		{name: "office", in: "Office", want: "office"},
		{name: "car", in: "my car", want: "car"},
		{name: "unknown passes through", in: "mansion", want: "mansion"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeSize(tc.in); got != tc.want {
				t.Fatalf("NormalizeSize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "iso", in: "2026-04-20", want: "2026-04-20"},
		{name: "ordinal without year rolls forward", in: "31st March", want: "2026-03-31"},
		{name: "month day without year", in: "March 15", want: "2026-03-15"},
		{name: "passed this year picks next", in: "January 2", want: "2027-01-02"},
		{name: "past date rejected", in: "2020-01-01", wantErr: ErrDateInPast},
		{name: "gibberish rejected", in: "whenever works", wantErr: ErrDateInvalid},
		{name: "empty rejected", in: "  ", wantErr: ErrDateInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeDate(tc.in, testNow)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("NormalizeDate(%q) error = %v, want %v", tc.in, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeDate(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("NormalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	if _, err := NormalizePhone("555-1234"); !errors.Is(err, ErrPhoneInvalid) {
		t.Fatalf("short number should be rejected, got %v", err)
	}
	got, err := NormalizePhone("555 123 4567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "5551234567" {
		t.Fatalf("NormalizePhone = %q, want 5551234567", got)
	}
	if _, err := NormalizePhone("+1 555 123 4567"); !errors.Is(err, ErrPhoneInvalid) {
		t.Fatal("11-digit number should be rejected")
	}
}

func TestNormalizeEmail(t *testing.T) {
	got, err := NormalizeEmail("John@Gmail.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "john@gmail.com" {
		t.Fatalf("NormalizeEmail = %q, want john@gmail.com", got)
	}

	if _, err := NormalizeEmail("not-an-email"); err == nil {
		t.Fatal("syntactically invalid email should be rejected")
	}
	if _, err := NormalizeEmail("jane@gmail"); err == nil {
		t.Fatal("domain without TLD should be rejected")
	}
	if _, err := NormalizeEmail("movers@movers.com"); err == nil {
		t.Fatal("local part equal to domain name should be rejected")
	}
}

func TestNormalizeEmailTypoSquatGuard(t *testing.T) {
	_, err := NormalizeEmail("john@gmial.com")
	var emailErr *EmailError
	if !errors.As(err, &emailErr) {
		t.Fatalf("expected EmailError, got %v", err)
	}
	if emailErr.Suggestion != "gmail.com" {
		t.Fatalf("Suggestion = %q, want gmail.com", emailErr.Suggestion)
	}

	// Exact provider domains must never be flagged as near-misses of each other.
	for _, address := range []string{"a@gmail.com", "b@yahoo.com", "c@hotmail.com", "d@outlook.com", "e@aol.com"} {
		if _, err := NormalizeEmail(address); err != nil {
			t.Fatalf("NormalizeEmail(%q) unexpected error: %v", address, err)
		}
	}
}

func TestNormalizeServices(t *testing.T) {
	got := NormalizeServices([]string{"Packing", "packing service", "storage unit", "piano", ""})
	want := []string{"packing", "packing", "storage"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeServices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NormalizeServices = %v, want %v", got, want)
		}
	}
}

func TestTitle(t *testing.T) {
	if got := Title("new york"); got != "New York" {
		t.Fatalf("Title = %q", got)
	}
	if got := Title("2-bedroom"); got != "2-bedroom" {
		t.Fatalf("Title should not touch interior characters, got %q", got)
	}
}
