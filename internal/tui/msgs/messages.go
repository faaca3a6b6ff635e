// Package msgs defines shared message types for TUI view transitions and
// async results.
package msgs

import (
	"coachai/internal/auth"
	"coachai/internal/coach"
)

// SignedInMsg is sent when authentication succeeds.
type SignedInMsg struct {
	Session *auth.Session
}

// AuthFailedMsg is sent when sign-in or sign-up fails.
type AuthFailedMsg struct {
	Err error
}

// TurnDoneMsg carries a completed conversation turn. ConversationID lets
// the chat view discard results that arrive after the conversation was
// replaced.
type TurnDoneMsg struct {
	ConversationID string
	Turn           coach.Turn
}

// TurnFailedMsg is sent when a conversation turn fails.
type TurnFailedMsg struct {
	ConversationID string
	Err            error
}

// PlanSavedMsg is sent after attempting to persist a generated plan.
type PlanSavedMsg struct {
	Saved *coach.SavedPlan
	Err   error
}

// PlansLoadedMsg refreshes the saved-plan sidebar.
type PlansLoadedMsg struct {
	Plans []*coach.SavedPlan
	Err   error
}

// PlanDeletedMsg is sent after deleting a saved plan.
type PlanDeletedMsg struct {
	ID  string
	Err error
}
