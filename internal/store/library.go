package store

import (
	"errors"

	"coachai/internal/coach"
)

// ErrNotAuthenticated is returned when a write requires a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// CurrentUserFunc reports the authenticated user id, or "" when signed out.
type CurrentUserFunc func() string

// Library is the saved-plan adapter the shell works with. Every operation
// is scoped to the currently authenticated user: writes require one, reads
// degrade to empty results without one.
type Library struct {
	store       *Store
	currentUser CurrentUserFunc
}

// NewLibrary binds a Library to the store and an auth session query.
func NewLibrary(s *Store, currentUser CurrentUserFunc) *Library {
	return &Library{store: s, currentUser: currentUser}
}

// Create persists a generated plan for the current user.
func (l *Library) Create(goal string, plan *coach.Plan, qaPairs []coach.QAPair) (*coach.SavedPlan, error) {
	userID := l.currentUser()
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	return l.store.CreatePlan(userID, goal, plan, qaPairs)
}

// ListAll returns the current user's plans, newest first. Signed out, it
// returns an empty list rather than an error.
func (l *Library) ListAll() ([]*coach.SavedPlan, error) {
	userID := l.currentUser()
	if userID == "" {
		return nil, nil
	}
	return l.store.ListPlans(userID)
}

// GetByID fetches one of the current user's plans.
func (l *Library) GetByID(id string) (*coach.SavedPlan, error) {
	userID := l.currentUser()
	if userID == "" {
		return nil, ErrNotFound
	}
	return l.store.GetPlan(userID, id)
}

// DeleteByID removes one of the current user's plans.
func (l *Library) DeleteByID(id string) error {
	userID := l.currentUser()
	if userID == "" {
		return ErrNotAuthenticated
	}
	return l.store.DeletePlan(userID, id)
}
