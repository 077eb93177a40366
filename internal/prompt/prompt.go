// Package prompt builds the system instruction, user message, and response
// schema for the plan-generation call.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wak1616/sightflow/internal/section"
)

// System returns the fixed instruction that pins the domain vocabulary and
// the required response shape.
func System() string {
	return systemInstruction
}

const systemInstruction = `You are a clinical workflow planner for an ophthalmology chart.
Given a de-identified clinical narrative you must determine which chart sections require updates.

Constraints:
- Only use the section ids listed in the user message.
- Provide concise reasoning for each section you include.
- Return an array of commands per section. Each command must specify a messageType, a description, and a payload.
- Supported messageType values and payloads:
  * INSERT_NARRATIVE: payload {"text": string} inserts free text into the section's narrative field.
  * SET_CHIEF_COMPLAINT: payload {"finding": string, "location": "OD"|"OS"|"OU" (optional)}.
  * SELECT_CONDITION: payload {"conditionsToSelect": [string], "freeTextEntries": [string]} for past medical history; conditionsToSelect entries must be picklist condition names, freeTextEntries hold anything else.
  * SET_MEASUREMENT: payload {"measure": "visual_acuity"|"iop"|"refraction", "correction": "cc"|"sc" (acuity only), "od": string, "os": string}.
  * ORDER_TEST: payload {"testName": string, "location": "OD"|"OS"|"OU" (optional, defaults OU)}.
  * ADD_DIAGNOSIS: payload {"diagnosis": string, "eyeLocation": "OD"|"OS"|"OU" (optional), "discussionText": string (optional)}.
  * SET_FOLLOW_UP: payload {"timeframe": string, e.g. "2 weeks"}.
  * MANUAL_ACTION: use when automation is not available. payload {"note": string} summarizing what the clinician should do manually.
- Prefer SELECT_CONDITION for past medical history content that maps to known conditions (e.g., "Diverticulosis").
- Keep payloads tightly scoped to the changes required; do not repeat the entire narrative.
- Omit sections that do not require changes.
- Do not invent clinical facts that are not present in the narrative.
- Respond with JSON only, conforming to the provided schema. No markdown, no prose outside JSON.`

// User assembles the user message: the alias-scoped narrative plus the
// section ids available for targeting.
func User(narrative, patientAlias string, sections []section.ID) string {
	ids := make([]string, len(sections))
	for i, id := range sections {
		ids[i] = string(id)
	}

	alias := patientAlias
	if alias == "" {
		alias = "UNKNOWN"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Patient alias: %s\n", alias)
	fmt.Fprintf(&b, "Available section ids: %s\n", strings.Join(ids, ", "))
	b.WriteString("Clinical narrative:\n\"\"\"\n")
	b.WriteString(strings.TrimSpace(narrative))
	b.WriteString("\n\"\"\"\n\nRespond with JSON only.")
	return b.String()
}

// Schema returns the JSON Schema the provider's reply must validate
// against: {summary?, sections: [{id, reasoning?, commands: [{messageType,
// description, payload?}]}]}.
func Schema(sections []section.ID) json.RawMessage {
	ids := make([]string, len(sections))
	for i, id := range sections {
		ids[i] = string(id)
	}

	schema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"sections"},
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Short summary of the plan for clinician review",
			},
			"sections": map[string]any{
				"type":        "array",
				"description": "Sections to update",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"id", "commands"},
					"properties": map[string]any{
						"id": map[string]any{
							"type": "string",
							"enum": ids,
						},
						"reasoning": map[string]any{
							"type":        "string",
							"description": "Why this section should change",
						},
						"commands": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":                 "object",
								"required":             []string{"messageType", "description"},
								"additionalProperties": true,
								"properties": map[string]any{
									"messageType": map[string]any{
										"type": "string",
										"enum": commandTypeNames(),
									},
									"description": map[string]any{
										"type":        "string",
										"description": "Human-readable explanation of the command",
									},
									"payload": map[string]any{
										"type":                 "object",
										"additionalProperties": true,
									},
								},
							},
						},
					},
				},
			},
		},
	}

	data, err := json.Marshal(schema)
	if err != nil {
		// The schema is a static literal; marshal cannot fail.
		panic(err)
	}
	return data
}

func commandTypeNames() []string {
	return []string{
		string(section.CmdInsertNarrative),
		string(section.CmdSetChiefComplaint),
		string(section.CmdSelectCondition),
		string(section.CmdSetMeasurement),
		string(section.CmdOrderTest),
		string(section.CmdAddDiagnosis),
		string(section.CmdSetFollowUp),
		string(section.CmdManualAction),
	}
}
