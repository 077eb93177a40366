// Package plan defines the core types for generated chart-edit plans.
package plan

import (
	"encoding/json"
	"time"

	"github.com/wak1616/sightflow/internal/section"
)

// Status indicates whether a plan item has anything left to act on.
type Status string

const (
	StatusPending  Status = "pending"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInactive
}

// Command is a single typed, parameterized edit intent. Commands are value
// objects: produced by the generator, filtered (never edited) by the
// sanitizer, read-only during execution.
type Command struct {
	Type        section.CommandType
	Description string
	Payload     Payload
}

// ManualNote is a command that cannot be automated for its target section,
// retained for the human reviewer with the routing reason. The original
// type and payload are carried through untouched.
type ManualNote struct {
	Type        section.CommandType `json:"messageType"`
	Description string              `json:"description,omitempty"`
	Payload     json.RawMessage     `json:"payload,omitempty"`
	Reason      string              `json:"reason"`
}

// Item is one section's worth of reasoning and commands within a plan.
type Item struct {
	Section     section.ID
	Subsection  string
	Reasoning   string
	Confidence  *float64
	Commands    []Command
	ManualNotes []ManualNote
	Status      Status
}

// Meta records how a plan was generated.
type Meta struct {
	Provider     string    `json:"provider"`
	Model        string    `json:"model,omitempty"`
	PatientAlias string    `json:"patient_alias,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Plan is the sanitized, section-scoped set of commands derived from one
// narrative. Plans are created fresh per analysis request and superseded,
// never merged, on resubmission.
type Plan struct {
	Summary  string
	Items    []Item
	Warnings []string
	Meta     Meta
}

// Executed records one successfully applied command.
type Executed struct {
	Section section.ID          `json:"section_id"`
	Command section.CommandType `json:"command_type"`
}

// Skipped records one command that could not be applied and why.
type Skipped struct {
	Section section.ID `json:"section_id"`
	Reason  string     `json:"reason"`
}

// ExecutionReport is the terminal state of a plan: exactly what was applied
// and what was skipped. Partial failure is data here, never an error.
type ExecutionReport struct {
	Executed []Executed `json:"executed"`
	Skipped  []Skipped  `json:"skipped"`
}

// Raw is the wire shape of a candidate plan as produced by a provider or
// the heuristic extractor, before sanitization.
type Raw struct {
	Summary  string       `json:"summary,omitempty"`
	Sections []RawSection `json:"sections"`
}

// RawSection is one unsanitized section entry in a candidate plan.
type RawSection struct {
	ID         string       `json:"id"`
	Subsection string       `json:"subsection,omitempty"`
	Reasoning  string       `json:"reasoning,omitempty"`
	Confidence *float64     `json:"confidence,omitempty"`
	Commands   []RawCommand `json:"commands"`
}

// RawCommand is one unsanitized command entry.
type RawCommand struct {
	Type        string          `json:"messageType"`
	Description string          `json:"description,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// ToRaw converts a sanitized plan back to wire shape. Commands keep their
// encoded payloads; manual notes reappear as commands of their original
// type so that re-sanitizing routes them identically.
func ToRaw(p *Plan) *Raw {
	raw := &Raw{Summary: p.Summary}
	for _, item := range p.Items {
		rs := RawSection{
			ID:         string(item.Section),
			Subsection: item.Subsection,
			Reasoning:  item.Reasoning,
			Confidence: item.Confidence,
		}
		for _, cmd := range item.Commands {
			rs.Commands = append(rs.Commands, RawCommand{
				Type:        string(cmd.Type),
				Description: cmd.Description,
				Payload:     EncodePayload(cmd.Payload),
			})
		}
		for _, note := range item.ManualNotes {
			rs.Commands = append(rs.Commands, RawCommand{
				Type:        string(note.Type),
				Description: note.Description,
				Payload:     note.Payload,
			})
		}
		raw.Sections = append(raw.Sections, rs)
	}
	return raw
}
