package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runWhoami(ctx context.Context, out io.Writer) error {
	auth, err := readySession(ctx)
	if err != nil {
		return err
	}

	user := auth.User()
	if user == nil {
		fmt.Fprintln(out, "Not logged in")
		fmt.Fprintln(out, "\nSign in with: docsite login --email <email>")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", user.ID)
	fmt.Fprintf(w, "Name:\t%s\n", user.Name)
	fmt.Fprintf(w, "Email:\t%s\n", user.Email)
	if user.SoftwareBackground != "" {
		fmt.Fprintf(w, "Software background:\t%s\n", user.SoftwareBackground)
	}
	if user.HardwareBackground != "" {
		fmt.Fprintf(w, "Hardware background:\t%s\n", user.HardwareBackground)
	}

	return w.Flush()
}
