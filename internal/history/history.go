package history

import "time"

// Action describes what was done to a résumé.
type Action string

const (
	ActionCreated           Action = "created"
	ActionUpdated           Action = "updated"
	ActionExperienceAdded   Action = "experience_added"
	ActionSkillAdded        Action = "skill_added"
	ActionSkillRemoved      Action = "skill_removed"
	ActionSectionsReordered Action = "sections_reordered"
	ActionSuggestionApplied Action = "suggestion_applied"
)

// Actor names who performed an action.
const (
	ActorEditor = "editor"
	ActorAgent  = "agent"
	ActorCLI    = "cli"
)

// Event is a single edit-history record.
type Event struct {
	ID            string    `json:"id"`
	ResumeID      string    `json:"resume_id"`
	Timestamp     time.Time `json:"timestamp"`
	Actor         string    `json:"actor"`
	Action        Action    `json:"action"`
	Summary       string    `json:"summary"`
	PreviousValue string    `json:"previous_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
}

// QueryFilter controls which events to return.
type QueryFilter struct {
	ResumeID string
	Action   Action
	Since    *time.Time
	Limit    int
	Offset   int
}
