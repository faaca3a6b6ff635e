package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var signupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignup,
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the cached session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoami,
}

func runSignup(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	session, err := e.auth.SignUp(args[0], password)
	if err != nil {
		return err
	}
	if err := e.tokens.Save(session.Token); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	fmt.Printf("Signed up as %s\n", session.User.Email)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	session, err := e.auth.SignIn(args[0], password)
	if err != nil {
		return err
	}
	if err := e.tokens.Save(session.Token); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	fmt.Printf("Signed in as %s\n", session.User.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if token := e.tokens.Load(); token != "" {
		e.auth.SignOut(token)
	}
	if err := e.tokens.Clear(); err != nil {
		return fmt.Errorf("failed to clear cached session: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	session, err := e.currentSession()
	if err != nil {
		return err
	}
	fmt.Println(session.User.Email)
	return nil
}

// readPassword prompts without echoing when stdin is a terminal. Piped
// input falls back to a plain line read.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
