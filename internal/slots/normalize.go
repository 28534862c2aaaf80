package slots

import (
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/araddon/dateparse"
)

// ServiceVocabulary is the closed set of recognized additional services.
var ServiceVocabulary = []string{"packing", "storage"}

var (
	bedroomPattern = regexp.MustCompile(`(\d+)\s*-?\s*bed(?:room)?(?:\s*apartment)?`)
	ordinalPattern = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)\b`)
	digitsPattern  = regexp.MustCompile(`\D`)
)

// commonProviders are checked for near-miss domains (typo-squatting guard).
var commonProviders = []string{"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "aol.com"}

// NormalizeSize maps free-text move sizes onto the standard vocabulary:
// "{n}-bedroom", "studio", "office", "car". Unrecognized input passes
// through unchanged; the estimator tolerates unknown tokens.
func NormalizeSize(raw string) string {
	size := strings.ToLower(strings.TrimSpace(raw))
	if m := bedroomPattern.FindStringSubmatch(size); m != nil {
		return m[1] + "-bedroom"
	}
	switch {
	case strings.Contains(size, "studio"):
		return "studio"
	case strings.Contains(size, "office"):
		return "office"
	case strings.Contains(size, "car"):
		return "car"
	}
	return size
}

// NormalizeDate parses a natural-language date and renders it as an ISO
// calendar date (YYYY-MM-DD). Ordinal suffixes are tolerated ("31st March").
// When no year is given, the next future occurrence is chosen. Dates before
// today are rejected with ErrDateInPast; unparseable input with
// ErrDateInvalid.
func NormalizeDate(raw string, now time.Time) (string, error) {
	text := ordinalPattern.ReplaceAllString(strings.TrimSpace(raw), "$1")
	if text == "" {
		return "", ErrDateInvalid
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	yearless := []string{"January 2", "2 January", "Jan 2", "2 Jan", "01/02"}
	for _, layout := range yearless {
		parsed, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		candidate := time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		if candidate.Before(today) {
			candidate = candidate.AddDate(1, 0, 0)
		}
		return candidate.Format("2006-01-02"), nil
	}

	parsed, err := dateparse.ParseAny(text)
	if err != nil {
		return "", ErrDateInvalid
	}
	date := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return "", ErrDateInPast
	}
	return date.Format("2006-01-02"), nil
}

// NormalizeServices filters raw tokens to the recognized vocabulary by
// substring match, dropping everything else. Specificity over recall.
func NormalizeServices(raw []string) []string {
	var recognized []string
	for _, token := range raw {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		for _, word := range ServiceVocabulary {
			if strings.Contains(token, word) {
				recognized = append(recognized, word)
				break
			}
		}
	}
	return recognized
}

// NormalizePhone strips non-digits and requires exactly 10 remaining digits.
func NormalizePhone(raw string) (string, error) {
	digits := digitsPattern.ReplaceAllString(raw, "")
	if len(digits) != 10 {
		return "", ErrPhoneInvalid
	}
	return digits, nil
}

// NormalizeEmail lower-cases and validates an email address: syntax, a
// plausible domain, a local part distinct from the domain name, and a
// typo-squatting guard against near-misses of common provider domains.
func NormalizeEmail(raw string) (string, error) {
	address := strings.ToLower(strings.TrimSpace(raw))
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return "", &EmailError{Reason: "that doesn't look like a valid email address"}
	}
	address = parsed.Address

	local, domain, ok := strings.Cut(address, "@")
	if !ok || !strings.Contains(domain, ".") {
		return "", &EmailError{Reason: "the email domain looks incomplete"}
	}
	if tld := domain[strings.LastIndex(domain, ".")+1:]; len(tld) < 2 {
		return "", &EmailError{Reason: "the email domain looks incomplete"}
	}
	if name, _, _ := strings.Cut(domain, "."); local == name {
		return "", &EmailError{Reason: "the email address looks like a placeholder"}
	}

	// Exact provider domains are fine; only near-misses are suspect.
	if !slices.Contains(commonProviders, domain) {
		for _, provider := range commonProviders {
			if Similarity(domain, provider) > 0.85 {
				return "", &EmailError{
					Reason:     fmt.Sprintf("%q looks misspelled", domain),
					Suggestion: provider,
				}
			}
		}
	}
	return address, nil
}

// Similarity is a string similarity ratio in [0, 1].
func Similarity(a, b string) float64 {
	return strutil.Similarity(a, b, metrics.NewJaroWinkler())
}

// Title renders a stored lower/free-case value for display ("new york" ->
// "New York").
func Title(value string) string {
	words := strings.Fields(value)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
