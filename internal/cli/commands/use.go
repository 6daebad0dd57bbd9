package commands

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/physai-textbook/docsite/internal/cli/userconfig"
	"github.com/physai-textbook/docsite/internal/tokenstore"
)

// NewUseCmd creates the use command
func NewUseCmd() *cobra.Command {
	var store string

	cmd := &cobra.Command{
		Use:         "use <api-url>",
		Short:       "Set the auth API used by later commands",
		Args:        cobra.ExactArgs(1),
		Annotations: noSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUse(cmd.OutOrStdout(), args[0], store)
		},
	}

	cmd.Flags().StringVar(&store, "store", "", "Also remember the token store (auto, keyring, sqlite, memory, none)")

	return cmd
}

func runUse(out io.Writer, rawURL, store string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL %q (want http:// or https://)", rawURL)
	}
	apiURL := strings.TrimRight(u.String(), "/")

	if store != "" && !validStoreKind(store) {
		return fmt.Errorf("unknown token store %q (want auto, keyring, sqlite, memory or none)", store)
	}

	if err := userconfig.SetAPIURL(apiURL); err != nil {
		return fmt.Errorf("failed to save API URL: %w", err)
	}
	fmt.Fprintf(out, "✓ Using API %s\n", apiURL)

	if store != "" {
		if err := userconfig.SetTokenStore(store); err != nil {
			return fmt.Errorf("failed to save token store: %w", err)
		}
		fmt.Fprintf(out, "✓ Using %s token store\n", store)
	}

	return nil
}

func validStoreKind(kind string) bool {
	switch kind {
	case tokenstore.KindAuto, tokenstore.KindKeyring, tokenstore.KindSQLite, tokenstore.KindMemory, tokenstore.KindNone:
		return true
	}
	return false
}
