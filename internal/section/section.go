// Package section defines the static catalog of chart sections.
package section

// ID identifies a chart section.
type ID string

const (
	History           ID = "history"
	PastHistory       ID = "psfhros"
	VisionAndPressure ID = "vp"
	Exam              ID = "exam"
	Diagnostics       ID = "diagnostics"
	ImpressionPlan    ID = "imp_plan"
	FollowUp          ID = "follow_up"
)

func (id ID) Valid() bool {
	switch id {
	case History, PastHistory, VisionAndPressure, Exam, Diagnostics, ImpressionPlan, FollowUp:
		return true
	}
	return false
}

// CommandType classifies a chart edit command.
type CommandType string

const (
	CmdInsertNarrative   CommandType = "INSERT_NARRATIVE"
	CmdSetChiefComplaint CommandType = "SET_CHIEF_COMPLAINT"
	CmdSelectCondition   CommandType = "SELECT_CONDITION"
	CmdSetMeasurement    CommandType = "SET_MEASUREMENT"
	CmdOrderTest         CommandType = "ORDER_TEST"
	CmdAddDiagnosis      CommandType = "ADD_DIAGNOSIS"
	CmdSetFollowUp       CommandType = "SET_FOLLOW_UP"
	CmdManualAction      CommandType = "MANUAL_ACTION"
)

func (c CommandType) Valid() bool {
	switch c {
	case CmdInsertNarrative, CmdSetChiefComplaint, CmdSelectCondition, CmdSetMeasurement,
		CmdOrderTest, CmdAddDiagnosis, CmdSetFollowUp, CmdManualAction:
		return true
	}
	return false
}

// Section describes one region of the chart and its command vocabulary.
type Section struct {
	ID          ID
	Label       string
	Automatable bool
	Allowed     []CommandType
}

// Registry is the fixed lookup table of chart sections.
type Registry struct {
	sections map[ID]Section
	order    []ID
}

// Default returns the registry for the standard seven-section chart layout.
// Exam is manual-only: there is no automation binding for structured exam
// entry, so its commands always route to manual notes.
func Default() *Registry {
	return New([]Section{
		{ID: History, Label: "History", Automatable: true,
			Allowed: []CommandType{CmdInsertNarrative, CmdSetChiefComplaint}},
		{ID: PastHistory, Label: "PSFH/ROS", Automatable: true,
			Allowed: []CommandType{CmdSelectCondition}},
		{ID: VisionAndPressure, Label: "V & P", Automatable: true,
			Allowed: []CommandType{CmdSetMeasurement}},
		{ID: Exam, Label: "Exam", Automatable: false,
			Allowed: []CommandType{CmdManualAction}},
		{ID: Diagnostics, Label: "Diagnostics", Automatable: true,
			Allowed: []CommandType{CmdOrderTest, CmdInsertNarrative}},
		{ID: ImpressionPlan, Label: "Imp/Plan", Automatable: true,
			Allowed: []CommandType{CmdAddDiagnosis, CmdInsertNarrative}},
		{ID: FollowUp, Label: "Follow Up", Automatable: true,
			Allowed: []CommandType{CmdSetFollowUp}},
	})
}

// New builds a registry from section definitions, preserving order.
func New(sections []Section) *Registry {
	r := &Registry{sections: make(map[ID]Section, len(sections))}
	for _, s := range sections {
		r.sections[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r
}

// Get looks up a section by id. Callers must treat a miss as
// "drop the referencing item", never as a fatal condition.
func (r *Registry) Get(id ID) (Section, bool) {
	s, ok := r.sections[id]
	return s, ok
}

// IsAllowed reports whether a command type is legal for a section.
// Unknown section ids are never allowed.
func (r *Registry) IsAllowed(id ID, cmd CommandType) bool {
	s, ok := r.sections[id]
	if !ok {
		return false
	}
	for _, a := range s.Allowed {
		if a == cmd {
			return true
		}
	}
	return false
}

// IDs returns all section ids in catalog order.
func (r *Registry) IDs() []ID {
	out := make([]ID, len(r.order))
	copy(out, r.order)
	return out
}
