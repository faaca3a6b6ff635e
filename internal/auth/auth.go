// Package auth implements the account and sign-in layer the shell gates
// on. Credentials live in the local store; a signed-in session is a random
// token with an expiry, cached on disk so the TUI stays logged in.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"coachai/internal/store"
)

// ErrInvalidCredentials is returned for a bad email/password combination.
// Deliberately the same error for unknown email and wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrNotSignedIn is returned when no valid session exists.
var ErrNotSignedIn = errors.New("not signed in")

// SessionTTL is how long a sign-in token stays valid.
const SessionTTL = 30 * 24 * time.Hour

const minPasswordLen = 8

// Session is an authenticated session.
type Session struct {
	Token string
	User  *store.User
}

// Service provides sign-up, sign-in, sign-out, and current-session queries.
type Service struct {
	store *store.Store
}

// NewService creates an auth service over the given store.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// SignUp registers a new account and signs it in.
func (a *Service) SignUp(email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	salt, err := randomHex(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	user, err := a.store.CreateUser(email, hashPassword(password, salt), salt)
	if err != nil {
		return nil, err
	}
	return a.openSession(user)
}

// SignIn verifies credentials and opens a session.
func (a *Service) SignIn(email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := a.store.UserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	want := []byte(user.PasswordHash)
	got := []byte(hashPassword(password, user.Salt))
	if subtle.ConstantTimeCompare(want, got) != 1 {
		return nil, ErrInvalidCredentials
	}
	return a.openSession(user)
}

// SignOut invalidates a session token.
func (a *Service) SignOut(token string) error {
	if token == "" {
		return nil
	}
	return a.store.DeleteAuthSession(token)
}

// Current resolves a token to its session, or ErrNotSignedIn.
func (a *Service) Current(token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotSignedIn
	}
	user, err := a.store.AuthSessionUser(token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotSignedIn
	}
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

func (a *Service) openSession(user *store.User) (*Session, error) {
	token, err := randomHex(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	if err := a.store.CreateAuthSession(token, user.ID, time.Now().Add(SessionTTL)); err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

func hashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + ":" + password))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
