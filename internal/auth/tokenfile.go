package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenCache persists the active session token between runs so the TUI
// does not ask for credentials every launch.
type TokenCache struct {
	path string
}

// NewTokenCache creates a cache backed by dir/session.token.
func NewTokenCache(dir string) *TokenCache {
	return &TokenCache{path: filepath.Join(dir, "session.token")}
}

// Save writes the token atomically (temp file + rename).
func (c *TokenCache) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	tmpFile := c.path + ".tmp"
	if err := os.WriteFile(tmpFile, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write token temp file: %w", err)
	}
	if err := os.Rename(tmpFile, c.path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename token temp file: %w", err)
	}
	return nil
}

// Load returns the cached token, or "" when none is saved.
func (c *TokenCache) Load() string {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Clear removes the cached token. Clearing a missing file is not an error.
func (c *TokenCache) Clear() error {
	err := os.Remove(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
