// Package prompt holds the interactive terminal prompts used by the CLI.
package prompt

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when a prompt is needed but stdin is not a terminal
var ErrNotInteractive = errors.New("stdin is not a terminal")

// BackgroundLevels are the choices offered for software and hardware background
var BackgroundLevels = []string{"beginner", "intermediate", "advanced"}

var validate = validator.New()

// Interactive reports whether stdin is a terminal (not piped)
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Password reads a password without echoing it
func Password(label string) (string, error) {
	if !Interactive() {
		return "", ErrNotInteractive
	}

	fmt.Fprintf(os.Stderr, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(bytePassword), nil
}

// Email asks for an email address
func Email(label string) (string, error) {
	if !Interactive() {
		return "", ErrNotInteractive
	}

	p := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if err := validate.Var(input, "required,email"); err != nil {
				return errors.New("invalid email address")
			}
			return nil
		},
	}

	value, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}
	return value, nil
}

// Select shows an interactive list and returns the chosen option
func Select(label string, options []string) (string, error) {
	if !Interactive() {
		return "", ErrNotInteractive
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no options to choose from for %s", label)
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "{{ . | green }}",
	}

	p := promptui.Select{
		Label:     label,
		Items:     options,
		Templates: templates,
		Size:      10,
	}

	index, _, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("%s selection cancelled: %w", label, err)
	}

	return options[index], nil
}
