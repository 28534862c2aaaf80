package extraction

import (
	"regexp"
	"strings"
)

var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// repairJSON applies the two narrow fixes models commonly need: stripping a
// Markdown code fence around the payload and removing trailing commas before
// closing braces/brackets. It is deliberately not a general JSON repairer;
// anything else still failing to parse is treated as an extraction failure.
func repairJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	return trailingCommaPattern.ReplaceAllString(content, "$1")
}
