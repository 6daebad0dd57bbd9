package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runLogout(ctx context.Context, out io.Writer) error {
	auth, err := readySession(ctx)
	if err != nil {
		return err
	}

	auth.Signout()
	fmt.Fprintln(out, "✓ Logged out")
	return nil
}
