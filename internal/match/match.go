// Package match resolves candidate clinical terms against closed picklists.
package match

import "strings"

// Result is the outcome of a picklist lookup. When Matched is true,
// Canonical holds the picklist entry with its original casing.
type Result struct {
	Matched   bool
	Canonical string
}

// Match compares a candidate term against the available picklist entries,
// ignoring case and surrounding/internal whitespace differences. This is
// deliberately exact-after-normalization: picklists are closed clinical
// vocabularies, and a near-miss must fall through to free-text entry rather
// than select the wrong concept. Callers wanting plural tolerance apply
// Singularize to both sides before calling.
func Match(candidate string, available []string) Result {
	want := normalize(candidate)
	if want == "" {
		return Result{}
	}
	for _, entry := range available {
		if normalize(entry) == want {
			return Result{Matched: true, Canonical: entry}
		}
	}
	return Result{}
}

// Singularize strips a plural "s" suffix (cataracts -> cataract). Terms
// ending in "ss" are left alone; so are one-letter terms.
func Singularize(term string) string {
	t := strings.TrimSpace(term)
	lower := strings.ToLower(t)
	if len(t) > 1 && strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") {
		return t[:len(t)-1]
	}
	return t
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
