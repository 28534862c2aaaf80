// Package intent provides cheap deterministic intent checks that route a
// turn before any state-specific handling runs.
package intent

import (
	"regexp"
	"strings"
)

// faqKeywords divert a turn to FAQ handling when any appears as a substring.
var faqKeywords = []string{
	"modify booking",
	"hidden charge",
	"refund",
	"cancel",
	"policy",
	"charges",
	"payment",
	"change booking",
}

// moveKeywords mark a turn as a move request.
var moveKeywords = []string{
	"move from",
	"moving from",
	"relocate from",
	"relocating from",
	"shift from",
	"shifting from",
	"transport from",
	"transporting from",
}

var locationPattern = regexp.MustCompile(`from\s+\w+\s+to\s+\w+`)

// IsFAQQuery reports whether the text looks like a booking/policy question.
// FAQ detection takes priority over move-request detection and over
// state-specific handling in every state.
func IsFAQQuery(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range faqKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// IsMoveRequest reports whether the text looks like a move request, either
// by a move-verb phrase or a "from X to Y" location pattern.
func IsMoveRequest(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range moveKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return locationPattern.MatchString(lowered)
}
