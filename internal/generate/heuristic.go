package generate

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/wak1616/sightflow/internal/match"
	"github.com/wak1616/sightflow/internal/plan"
	"github.com/wak1616/sightflow/internal/section"
)

//go:embed conditions.yaml
var conditionsYAML []byte

type conditionsFile struct {
	Conditions []string `yaml:"conditions"`
}

// KnownConditions returns the embedded picklist of condition names the
// chart's past-history section recognizes.
func KnownConditions() []string {
	var f conditionsFile
	if err := yaml.Unmarshal(conditionsYAML, &f); err != nil {
		// Embedded data; a parse failure is a build defect.
		panic(fmt.Sprintf("parse embedded conditions.yaml: %v", err))
	}
	return f.Conditions
}

// Phrases that introduce a past-history condition list. Each pattern
// captures the clause up to the next sentence boundary.
var conditionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bhistory of\s+([^.;:\n]+)`),
	regexp.MustCompile(`(?i)\bhx of\s+([^.;:\n]+)`),
	regexp.MustCompile(`(?i)\bh/o\s+([^.;:\n]+)`),
	regexp.MustCompile(`(?i)\bdiagnosed with\s+([^.;:\n]+)`),
	regexp.MustCompile(`(?i)\bpast medical history (?:includes|of)\s+([^.;:\n]+)`),
}

var conditionSplitter = regexp.MustCompile(`\s*(?:,|;|/|\band\b)\s*`)

// heuristic builds a raw plan without the AI provider: the full narrative
// goes into the history section, and any condition phrases it can spot go
// into the past-history section, split between picklist selections and
// free-text entries.
func (g *Generator) heuristic(narrative string) *plan.Raw {
	raw := &plan.Raw{
		Summary: "Heuristic extraction from encounter narrative",
		Sections: []plan.RawSection{
			{
				ID:        string(section.History),
				Reasoning: "free-text encounter narrative supplied by clinician",
				Commands: []plan.RawCommand{{
					Type:        string(section.CmdInsertNarrative),
					Description: "Insert encounter narrative",
					Payload:     plan.EncodePayload(plan.NarrativeText{Text: narrative}),
				}},
			},
		},
	}

	selected, freeText := g.extractConditions(narrative)
	if len(selected)+len(freeText) > 0 {
		raw.Sections = append(raw.Sections, plan.RawSection{
			ID:        string(section.PastHistory),
			Reasoning: "condition phrases detected in narrative",
			Commands: []plan.RawCommand{{
				Type:        string(section.CmdSelectCondition),
				Description: "Record past medical history conditions",
				Payload: plan.EncodePayload(plan.ConditionSet{
					Select:   selected,
					FreeText: freeText,
				}),
			}},
		})
	}

	return raw
}

// extractConditions scans the narrative for condition phrases and splits
// the results into picklist matches and free-text leftovers. Output order
// follows first appearance in the narrative and is deterministic.
func (g *Generator) extractConditions(narrative string) (selected, freeText []string) {
	seen := make(map[string]bool)

	for _, candidate := range conditionCandidates(narrative) {
		name := canonicalCase(candidate)
		canonical, ok := matchCondition(name, g.Conditions)
		if ok {
			name = canonical
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		if ok {
			selected = append(selected, name)
		} else {
			freeText = append(freeText, name)
		}
	}
	return selected, freeText
}

// conditionCandidates returns raw condition phrases in narrative order.
func conditionCandidates(narrative string) []string {
	type hit struct {
		pos    int
		clause string
	}
	var hits []hit
	for _, re := range conditionPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(narrative, -1) {
			hits = append(hits, hit{pos: m[2], clause: narrative[m[2]:m[3]]})
		}
	}
	// Patterns overlap ("history of" also fires inside "past medical
	// history of"); sorting by position and deduping downstream keeps
	// the output stable.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	var out []string
	for _, h := range hits {
		for _, part := range conditionSplitter.Split(h.clause, -1) {
			part = strings.Trim(part, " \t.")
			part = strings.TrimPrefix(part, "an ")
			part = strings.TrimPrefix(part, "a ")
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// matchCondition checks a candidate against the picklist, tolerating
// plural forms on either side.
func matchCondition(candidate string, known []string) (string, bool) {
	if r := match.Match(candidate, known); r.Matched {
		return r.Canonical, true
	}
	singular := match.Singularize(candidate)
	for _, k := range known {
		if r := match.Match(singular, []string{match.Singularize(k)}); r.Matched {
			return k, true
		}
	}
	return "", false
}

var romanNumeral = regexp.MustCompile(`^[ivxlcdm]+$`)

// canonicalCase normalizes a condition phrase token by token: roman
// numerals and very short tokens go upper-case, everything else gets an
// initial capital.
func canonicalCase(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	for i, tok := range tokens {
		switch {
		case romanNumeral.MatchString(tok), len(tok) <= 2:
			tokens[i] = strings.ToUpper(tok)
		default:
			runes := []rune(tok)
			runes[0] = unicode.ToUpper(runes[0])
			tokens[i] = string(runes)
		}
	}
	return strings.Join(tokens, " ")
}

