// Package redact scrubs patient-identifying details from narrative text
// before it leaves the local environment.
package redact

import "regexp"

var patterns []*regexp.Regexp

func init() {
	raw := []string{
		// Social security numbers
		`\b\d{3}-\d{2}-\d{4}\b`,
		// Phone numbers
		`\(?\d{3}\)?[-. ]\d{3}[-. ]\d{4}\b`,
		// Email addresses
		`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
		// Medical record numbers
		`(?i)\bmrn\s*[:#]?\s*\d+`,
		// Dates: 01/02/1980, 1-2-80, 1980-01-02
		`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`,
		`\b\d{4}-\d{2}-\d{2}\b`,
		// Spelled-out dates of birth: January 2, 1980
		`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b`,
	}
	for _, r := range raw {
		patterns = append(patterns, regexp.MustCompile(r))
	}
}

// Redact replaces identifying patterns in text with [REDACTED].
func Redact(text string) string {
	for _, p := range patterns {
		text = p.ReplaceAllString(text, "[REDACTED]")
	}
	return text
}
