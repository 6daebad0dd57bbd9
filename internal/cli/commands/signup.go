package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/physai-textbook/docsite/internal/authapi"
	"github.com/physai-textbook/docsite/internal/cli/prompt"
)

type signupInput struct {
	email              string
	password           string
	name               string
	softwareBackground string
	hardwareBackground string
}

// NewSignupCmd creates the signup command
func NewSignupCmd() *cobra.Command {
	var in signupInput

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a textbook account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(cmd.Context(), cmd.OutOrStdout(), in)
		},
	}

	cmd.Flags().StringVar(&in.email, "email", "", "Email address (or set DOCSITE_EMAIL)")
	cmd.Flags().StringVar(&in.password, "password", "", "Password (or set DOCSITE_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&in.name, "name", "", "Display name")
	cmd.Flags().StringVar(&in.softwareBackground, "software-background", "", "Software background: beginner, intermediate or advanced")
	cmd.Flags().StringVar(&in.hardwareBackground, "hardware-background", "", "Hardware background: beginner, intermediate or advanced")

	return cmd
}

func runSignup(ctx context.Context, out io.Writer, in signupInput, opts ...Option) error {
	o := newRunOptions(opts)

	if in.email == "" {
		in.email = os.Getenv("DOCSITE_EMAIL")
	}
	if in.password == "" {
		in.password = os.Getenv("DOCSITE_PASSWORD")
	}

	var err error
	if in.email == "" {
		in.email, err = o.readEmail("Email")
		if errors.Is(err, prompt.ErrNotInteractive) {
			return fmt.Errorf("email is required (use --email flag or DOCSITE_EMAIL env var)")
		}
		if err != nil {
			return err
		}
	}

	if in.password == "" {
		in.password, err = o.readPassword("Password")
		if errors.Is(err, prompt.ErrNotInteractive) {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or DOCSITE_PASSWORD env var)")
		}
		if err != nil {
			return err
		}
	}

	// Backgrounds are optional; only ask when someone is at the terminal
	in.softwareBackground, err = chooseBackground(o, "Software background", in.softwareBackground)
	if err != nil {
		return err
	}
	in.hardwareBackground, err = chooseBackground(o, "Hardware background", in.hardwareBackground)
	if err != nil {
		return err
	}

	auth, err := readySession(ctx)
	if err != nil {
		return err
	}

	resp, err := auth.Signup(ctx, authapi.SignupRequest{
		Email:    in.email,
		Password: in.password,
		Name:     in.name,
		Profile: authapi.Profile{
			SoftwareBackground: in.softwareBackground,
			HardwareBackground: in.hardwareBackground,
		},
	})
	if err != nil {
		return &actionError{action: "signup", msg: auth.Error(), err: err}
	}

	fmt.Fprintln(out, "✓ Account created!")
	if resp.User != nil {
		fmt.Fprintf(out, "  User: %s (%s)\n", resp.User.Name, resp.User.Email)
	}

	return nil
}

func chooseBackground(o *runOptions, label, current string) (string, error) {
	if current != "" {
		for _, level := range prompt.BackgroundLevels {
			if level == current {
				return current, nil
			}
		}
		return "", fmt.Errorf("invalid %s %q (want beginner, intermediate or advanced)", label, current)
	}

	level, err := o.selectOption(label, prompt.BackgroundLevels)
	if errors.Is(err, prompt.ErrNotInteractive) {
		return "", nil
	}
	return level, err
}
