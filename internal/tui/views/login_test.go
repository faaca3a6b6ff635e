package views

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"coachai/internal/auth"
	"coachai/internal/tui/msgs"
)

type fakeAuth struct {
	session *auth.Session
	err     error

	signIns int
	signUps int
}

func (f *fakeAuth) SignIn(email, password string) (*auth.Session, error) {
	f.signIns++
	return f.session, f.err
}

func (f *fakeAuth) SignUp(email, password string) (*auth.Session, error) {
	f.signUps++
	return f.session, f.err
}

func submitLogin(t *testing.T, m LoginModel, email, password string) (LoginModel, tea.Msg) {
	t.Helper()
	m.email.SetValue(email)
	m.password.SetValue(password)
	m.focus = fieldPassword
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func TestLoginModel_SignInSuccess(t *testing.T) {
	fa := &fakeAuth{session: &auth.Session{Token: "tok"}}
	m := NewLoginModel(fa)

	m, result := submitLogin(t, m, "ada@example.com", "lovelace1")

	signed, ok := result.(msgs.SignedInMsg)
	if !ok {
		t.Fatalf("result = %T, want SignedInMsg", result)
	}
	if signed.Session.Token != "tok" {
		t.Errorf("token = %q, want tok", signed.Session.Token)
	}
	if fa.signIns != 1 || fa.signUps != 0 {
		t.Errorf("signIns=%d signUps=%d, want 1 and 0", fa.signIns, fa.signUps)
	}
}

func TestLoginModel_SignupModeCallsSignUp(t *testing.T) {
	fa := &fakeAuth{session: &auth.Session{Token: "tok"}}
	m := NewLoginModel(fa)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.Signup() {
		t.Fatal("ctrl+s should enable sign-up mode")
	}

	_, result := submitLogin(t, m, "ada@example.com", "lovelace1")

	if _, ok := result.(msgs.SignedInMsg); !ok {
		t.Fatalf("result = %T, want SignedInMsg", result)
	}
	if fa.signUps != 1 || fa.signIns != 0 {
		t.Errorf("signUps=%d signIns=%d, want 1 and 0", fa.signUps, fa.signIns)
	}
}

func TestLoginModel_FailureShowsError(t *testing.T) {
	fa := &fakeAuth{err: errors.New("invalid email or password")}
	m := NewLoginModel(fa)

	m, result := submitLogin(t, m, "ada@example.com", "wrong")

	failed, ok := result.(msgs.AuthFailedMsg)
	if !ok {
		t.Fatalf("result = %T, want AuthFailedMsg", result)
	}

	m, _ = m.Update(failed)
	if m.ErrText() != "invalid email or password" {
		t.Errorf("errText = %q", m.ErrText())
	}
}

func TestLoginModel_EmptyFieldsRejectedLocally(t *testing.T) {
	fa := &fakeAuth{}
	m := NewLoginModel(fa)

	m, result := submitLogin(t, m, "", "")

	if result != nil {
		t.Fatalf("expected no auth call, got %T", result)
	}
	if m.ErrText() == "" {
		t.Error("expected a validation error")
	}
	if fa.signIns != 0 && fa.signUps != 0 {
		t.Error("auth service should not be called with empty fields")
	}
}
