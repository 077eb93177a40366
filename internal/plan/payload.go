package plan

import (
	"encoding/json"
	"fmt"

	"github.com/wak1616/sightflow/internal/section"
)

// Payload carries the parameters for one command type. The set of payload
// shapes is closed: one struct per command type, decoded from wire JSON by
// the sanitizer.
type Payload interface {
	Kind() section.CommandType
}

// NarrativeText inserts free text into a section's narrative field.
type NarrativeText struct {
	Text string `json:"text"`
}

func (NarrativeText) Kind() section.CommandType { return section.CmdInsertNarrative }

// ChiefComplaint selects or free-types a chief complaint finding, with an
// optional eye location (OD, OS, OU).
type ChiefComplaint struct {
	Finding  string `json:"finding"`
	Location string `json:"location,omitempty"`
}

func (ChiefComplaint) Kind() section.CommandType { return section.CmdSetChiefComplaint }

// ConditionSet selects known conditions from the section's picklist and
// free-types the rest.
type ConditionSet struct {
	Select   []string `json:"conditionsToSelect,omitempty"`
	FreeText []string `json:"freeTextEntries,omitempty"`
}

func (ConditionSet) Kind() section.CommandType { return section.CmdSelectCondition }

// Measurement sets a per-eye clinical measurement such as visual acuity or
// intraocular pressure.
type Measurement struct {
	Measure    string `json:"measure"`
	Correction string `json:"correction,omitempty"`
	OD         string `json:"od,omitempty"`
	OS         string `json:"os,omitempty"`
}

func (Measurement) Kind() section.CommandType { return section.CmdSetMeasurement }

// TestOrder orders a diagnostic test.
type TestOrder struct {
	Test     string `json:"testName"`
	Location string `json:"location,omitempty"`
}

func (TestOrder) Kind() section.CommandType { return section.CmdOrderTest }

// Diagnosis records an impression with optional per-diagnosis discussion.
type Diagnosis struct {
	Name       string `json:"diagnosis"`
	Location   string `json:"eyeLocation,omitempty"`
	Discussion string `json:"discussionText,omitempty"`
}

func (Diagnosis) Kind() section.CommandType { return section.CmdAddDiagnosis }

// FollowUpTimeframe schedules the return visit.
type FollowUpTimeframe struct {
	Timeframe string `json:"timeframe"`
}

func (FollowUpTimeframe) Kind() section.CommandType { return section.CmdSetFollowUp }

// ManualAction summarizes a step the clinician must perform by hand.
type ManualAction struct {
	Note string `json:"note"`
}

func (ManualAction) Kind() section.CommandType { return section.CmdManualAction }

// DecodePayload unmarshals a wire payload into the typed struct for the
// given command type. A nil payload decodes to the zero value. Unknown
// command types and malformed JSON return an error; callers degrade, they
// do not propagate.
func DecodePayload(t section.CommandType, raw json.RawMessage) (Payload, error) {
	decode := func(dst Payload) (Payload, error) {
		if len(raw) == 0 {
			return dst, nil
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("plan.DecodePayload: %s: %w", t, err)
		}
		return dst, nil
	}

	switch t {
	case section.CmdInsertNarrative:
		return decode(&NarrativeText{})
	case section.CmdSetChiefComplaint:
		return decode(&ChiefComplaint{})
	case section.CmdSelectCondition:
		return decode(&ConditionSet{})
	case section.CmdSetMeasurement:
		return decode(&Measurement{})
	case section.CmdOrderTest:
		return decode(&TestOrder{})
	case section.CmdAddDiagnosis:
		return decode(&Diagnosis{})
	case section.CmdSetFollowUp:
		return decode(&FollowUpTimeframe{})
	case section.CmdManualAction:
		return decode(&ManualAction{})
	}
	return nil, fmt.Errorf("plan.DecodePayload: unknown command type %q", t)
}

// EncodePayload marshals a typed payload back to wire JSON. Returns nil for
// a nil payload; payload structs contain no unmarshalable fields, so the
// error case cannot occur in practice.
func EncodePayload(p Payload) json.RawMessage {
	if p == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	return data
}
