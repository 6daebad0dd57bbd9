package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/physai-textbook/docsite/internal/cli/prompt"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the textbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), cmd.OutOrStdout(), email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set DOCSITE_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set DOCSITE_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, out io.Writer, email, password string, opts ...Option) error {
	o := newRunOptions(opts)

	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("DOCSITE_EMAIL")
	}
	if password == "" {
		password = os.Getenv("DOCSITE_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or DOCSITE_EMAIL env var)")
	}

	if password == "" {
		var err error
		password, err = o.readPassword("Password")
		if errors.Is(err, prompt.ErrNotInteractive) {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or DOCSITE_PASSWORD env var)")
		}
		if err != nil {
			return err
		}
	}

	auth, err := readySession(ctx)
	if err != nil {
		return err
	}

	resp, err := auth.Signin(ctx, email, password)
	if err != nil {
		return &actionError{action: "login", msg: auth.Error(), err: err}
	}

	fmt.Fprintln(out, "✓ Login successful!")
	if resp.User != nil {
		fmt.Fprintf(out, "  User: %s (%s)\n", resp.User.Name, resp.User.Email)
	}

	return nil
}
