// Package coach holds the goal-coaching data model and the conversation
// core: the question loop state machine and the plan advisory classifier.
package coach

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// QAPair is one clarifying question together with the user's answer.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Step is a single actionable step of a generated plan.
type Step struct {
	StepNumber int      `json:"step_number"`
	Do         string   `json:"do"`
	Why        string   `json:"why"`
	Check      string   `json:"check"`
	Resources  []string `json:"resources"`
}

// Plan is the structured plan returned by the plan service. The advisory
// fields are optional; absence and presence both carry meaning for the
// classifier, so optional numerics are pointers rather than zero values.
type Plan struct {
	Goal  string   `json:"goal"`
	Steps []Step   `json:"steps"`
	Tips  []string `json:"tips"`

	// Goal adjustment tracking
	OriginalGoal      string `json:"original_goal,omitempty"`
	GoalChangedReason string `json:"goal_changed_reason,omitempty"`

	// Timeline feasibility
	TotalMinutesCalculated *int            `json:"total_minutes_calculated,omitempty"`
	UserRequestedHours     *float64        `json:"user_requested_hours,omitempty"`
	RealisticHoursNeeded   *RealisticHours `json:"realistic_hours_needed,omitempty"`
	FeasibilityRatio       *float64        `json:"feasibility_ratio,omitempty"`
	TimelineAdjusted       *bool           `json:"timeline_adjusted,omitempty"`
	AdjustmentExplanation  string          `json:"adjustment_explanation,omitempty"`
	RealisticGoalLevel     string          `json:"realistic_goal_level,omitempty"`
}

// Decision is the continuation-decision returned by the plan service after
// each answered question.
type Decision struct {
	Action    string `json:"action"` // "ask" or "ready"
	Question  string `json:"question,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
}

// Decision actions.
const (
	ActionAsk   = "ask"
	ActionReady = "ready"
)

// SavedPlan is a persisted plan row. IDs are assigned by the store.
type SavedPlan struct {
	ID        string    `json:"id"`
	Goal      string    `json:"goal"`
	CreatedAt time.Time `json:"created_at"`
	QAPairs   []QAPair  `json:"qa_pairs"`
	Plan      *Plan     `json:"plan"`
}

// impossibleSentinel is the wire value the service uses when a goal cannot
// be achieved in any amount of the user's time.
const impossibleSentinel = "IMPOSSIBLE"

// RealisticHours is the two-variant decoding of the service's
// realistic_hours_needed field, which is either a number of hours or the
// literal string "IMPOSSIBLE" (matched case-insensitively).
type RealisticHours struct {
	Impossible bool
	Hours      float64
}

// UnmarshalJSON accepts a JSON number, a numeric string, or the impossible
// sentinel. Anything else is a decode error so malformed responses fail at
// the boundary instead of being coerced downstream.
func (r *RealisticHours) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.EqualFold(strings.TrimSpace(s), impossibleSentinel) {
			*r = RealisticHours{Impossible: true}
			return nil
		}
		hours, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("realistic_hours_needed: unrecognized value %q", s)
		}
		*r = RealisticHours{Hours: hours}
		return nil
	}

	var hours float64
	if err := json.Unmarshal(data, &hours); err != nil {
		return fmt.Errorf("realistic_hours_needed: expected number or %q: %w", impossibleSentinel, err)
	}
	*r = RealisticHours{Hours: hours}
	return nil
}

// MarshalJSON writes the sentinel string for the impossible variant and a
// plain number otherwise, preserving the service wire format.
func (r RealisticHours) MarshalJSON() ([]byte, error) {
	if r.Impossible {
		return json.Marshal(impossibleSentinel)
	}
	return json.Marshal(r.Hours)
}
