// ABOUTME: Interactive prompts for credentials and confirmations
// ABOUTME: Falls back to non-interactive behavior when stdin is not a terminal

package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// interactive is replaced in tests
var interactive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptCredentials asks for whichever of email/password is missing
func promptCredentials(email, password string) (string, string, error) {
	if email != "" && password != "" {
		return email, password, nil
	}
	if !interactive() {
		return "", "", errors.New("--email and --password are required when not running in a terminal")
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("enter a valid email address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(email), password, nil
}

// confirm asks a yes/no question. Without a terminal it answers no.
func confirm(title string) bool {
	if !interactive() {
		return false
	}
	var ok bool
	if err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run(); err != nil {
		return false
	}
	return ok
}
