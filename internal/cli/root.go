// Package cli implements the coach command line: the plan service,
// account management, and saved-plan inspection.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coachai/internal/auth"
	"coachai/internal/config"
	"coachai/internal/store"
)

var rootCmd = &cobra.Command{
	Use:     "coach",
	Short:   "Goal-planning coach",
	Long:    `Coach turns a goal into a concrete step-by-step plan through a short clarifying conversation. Run with no arguments for the interactive interface.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// env bundles the services most subcommands need.
type env struct {
	cfg    *config.Config
	store  *store.Store
	auth   *auth.Service
	tokens *auth.TokenCache
}

// openEnv loads configuration and opens the local store.
func openEnv() (*env, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:    cfg,
		store:  st,
		auth:   auth.NewService(st),
		tokens: auth.NewTokenCache(cfg.DataDir),
	}, nil
}

func (e *env) close() {
	e.store.Close()
}

// currentSession resolves the cached token to a signed-in session.
func (e *env) currentSession() (*auth.Session, error) {
	token := e.tokens.Load()
	if token == "" {
		return nil, fmt.Errorf("not signed in, run 'coach login' first")
	}
	session, err := e.auth.Current(token)
	if err != nil {
		e.tokens.Clear()
		return nil, fmt.Errorf("session expired, run 'coach login' again")
	}
	return session, nil
}
