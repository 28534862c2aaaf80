package slots

import (
	"errors"
	"fmt"
)

// Typed validation rejections. The dialogue engine turns these into
// field-specific re-prompts; the offending field is left unchanged.
var (
	ErrDateInvalid  = errors.New("move date not recognized")
	ErrDateInPast   = errors.New("move date is in the past")
	ErrPhoneInvalid = errors.New("contact number must have exactly 10 digits")
)

// EmailError reports an email validation failure. Suggestion is set when the
// domain looks like a typo of a common provider (e.g. gmial.com -> gmail.com).
type EmailError struct {
	Reason     string
	Suggestion string
}

func (e *EmailError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (did you mean %s?)", e.Reason, e.Suggestion)
	}
	return e.Reason
}
