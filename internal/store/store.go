// Package store persists users, auth sessions, and saved plans in a
// local SQLite database.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"coachai/internal/coach"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// User is a registered account row.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Salt         string
	CreatedAt    time.Time
}

// Store wraps the SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at dir/coach.db and ensures the schema.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := filepath.Join(dir, "coach.db")

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		salt TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auth_sessions (
		token TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		goal TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		qa_pairs_json TEXT NOT NULL,
		plan_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_plans_user ON plans(user_id, created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateUser inserts a new account. Email uniqueness is enforced by the schema.
func (s *Store) CreateUser(email, passwordHash, salt string) (*User, error) {
	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO users (id, email, password_hash, salt, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Salt, u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// UserByEmail fetches an account by email.
func (s *Store) UserByEmail(email string) (*User, error) {
	row := s.db.QueryRow(
		`SELECT id, email, password_hash, salt, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// UserByID fetches an account by id.
func (s *Store) UserByID(id string) (*User, error) {
	row := s.db.QueryRow(
		`SELECT id, email, password_hash, salt, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Salt, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	return &u, nil
}

// CreateAuthSession records a signed-in session token.
func (s *Store) CreateAuthSession(token, userID string, expiresAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO auth_sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		token, userID, time.Now().UTC(), expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create auth session: %w", err)
	}
	return nil
}

// AuthSessionUser resolves a token to its user. Expired tokens are deleted
// on sight and reported as ErrNotFound.
func (s *Store) AuthSessionUser(token string) (*User, error) {
	var userID string
	var expiresAt time.Time
	err := s.db.QueryRow(
		`SELECT user_id, expires_at FROM auth_sessions WHERE token = ?`, token,
	).Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read auth session: %w", err)
	}
	if time.Now().After(expiresAt) {
		s.DeleteAuthSession(token)
		return nil, ErrNotFound
	}
	return s.UserByID(userID)
}

// DeleteAuthSession removes a token. Deleting a missing token is not an error.
func (s *Store) DeleteAuthSession(token string) error {
	_, err := s.db.Exec(`DELETE FROM auth_sessions WHERE token = ?`, token)
	return err
}

// CreatePlan writes a saved-plan row owned by userID and returns the stored
// record with its server-assigned id.
func (s *Store) CreatePlan(userID, goal string, plan *coach.Plan, qaPairs []coach.QAPair) (*coach.SavedPlan, error) {
	qaJSON, err := json.Marshal(qaPairs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qa pairs: %w", err)
	}
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	saved := &coach.SavedPlan{
		ID:        uuid.NewString(),
		Goal:      goal,
		CreatedAt: time.Now().UTC(),
		QAPairs:   qaPairs,
		Plan:      plan,
	}
	_, err = s.db.Exec(
		`INSERT INTO plans (id, user_id, goal, created_at, qa_pairs_json, plan_json) VALUES (?, ?, ?, ?, ?, ?)`,
		saved.ID, userID, saved.Goal, saved.CreatedAt, string(qaJSON), string(planJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert plan: %w", err)
	}
	return saved, nil
}

// ListPlans returns all plans for a user, newest first.
func (s *Store) ListPlans(userID string) ([]*coach.SavedPlan, error) {
	rows, err := s.db.Query(
		`SELECT id, goal, created_at, qa_pairs_json, plan_json
		 FROM plans WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*coach.SavedPlan
	for rows.Next() {
		saved, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		plans = append(plans, saved)
	}
	return plans, rows.Err()
}

// GetPlan fetches a single plan owned by userID.
func (s *Store) GetPlan(userID, id string) (*coach.SavedPlan, error) {
	row := s.db.QueryRow(
		`SELECT id, goal, created_at, qa_pairs_json, plan_json
		 FROM plans WHERE user_id = ? AND id = ?`, userID, id)
	saved, err := scanPlan(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return saved, err
}

// DeletePlan removes a plan owned by userID.
func (s *Store) DeletePlan(userID, id string) error {
	res, err := s.db.Exec(`DELETE FROM plans WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPlan(scan func(dest ...any) error) (*coach.SavedPlan, error) {
	var saved coach.SavedPlan
	var qaJSON, planJSON string
	if err := scan(&saved.ID, &saved.Goal, &saved.CreatedAt, &qaJSON, &planJSON); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(qaJSON), &saved.QAPairs); err != nil {
		return nil, fmt.Errorf("corrupt qa pairs for plan %s: %w", saved.ID, err)
	}
	if err := json.Unmarshal([]byte(planJSON), &saved.Plan); err != nil {
		return nil, fmt.Errorf("corrupt plan body for plan %s: %w", saved.ID, err)
	}
	return &saved, nil
}
