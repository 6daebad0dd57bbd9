package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/physai-textbook/docsite/internal/authapi"
	"github.com/physai-textbook/docsite/internal/cli/commands"
	"github.com/physai-textbook/docsite/internal/cli/userconfig"
	"github.com/physai-textbook/docsite/internal/logger"
	"github.com/physai-textbook/docsite/internal/session"
	"github.com/physai-textbook/docsite/internal/tokenstore"
)

var version = "dev" // Will be set during build

// DefaultAPIURL is used when no flag, env var or user config names an API
const DefaultAPIURL = "http://localhost:8000"

type rootFlags struct {
	apiURL    string
	store     string
	storePath string
}

// NewRootCmd builds the docsite command tree
func NewRootCmd() *cobra.Command {
	var flags rootFlags
	var closer io.Closer

	rootCmd := &cobra.Command{
		Use:   "docsite",
		Short: "Docsite - Physical AI & Robotics textbook companion",
		Long: `Docsite CLI - Manage your textbook account and site content.

Sign in or create an account against the textbook auth API, and inspect the
sidebars and site configuration used to build the site.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogging()

			if skipsSession(cmd) {
				return nil
			}
			if _, ok := session.Lookup(cmd.Context()); ok {
				return nil
			}

			p, c, err := buildSession(cmd, flags)
			if err != nil {
				return err
			}
			closer = c
			cmd.SetContext(session.NewContext(cmd.Context(), p))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closer != nil {
				return closer.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "Auth API base URL (or set DOCSITE_API_URL)")
	rootCmd.PersistentFlags().StringVar(&flags.store, "store", "", "Token store: auto, keyring, sqlite, memory or none")
	rootCmd.PersistentFlags().StringVar(&flags.storePath, "store-path", "", "SQLite token store file (default ~/.config/docsite/tokens.db)")

	rootCmd.AddCommand(&cobra.Command{
		Use:         "version",
		Short:       "Print the version number",
		Annotations: map[string]string{commands.AnnotationNoSession: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docsite version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewSignupCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewUseCmd())
	rootCmd.AddCommand(commands.NewSidebarsCmd())
	rootCmd.AddCommand(commands.NewConfigCmd())

	return rootCmd
}

// initLogging sends CLI logs to stderr, quiet unless LOG_LEVEL asks otherwise
func initLogging() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	format := os.Getenv("LOG_FORMAT")
	if format == "" {
		format = "console"
	}

	log.Logger = logger.New(format, os.Stderr).Level(logger.ParseLevel(level))
}

func skipsSession(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[commands.AnnotationNoSession] == "true" {
			return true
		}
	}
	return false
}

// resolveSettings applies flag, then env, then user config, then defaults
func resolveSettings(flags rootFlags) (apiURL, kind, path string, err error) {
	cfg, err := userconfig.Load()
	if err != nil {
		return "", "", "", err
	}

	apiURL = flags.apiURL
	if apiURL == "" {
		apiURL = os.Getenv("DOCSITE_API_URL")
	}
	if apiURL == "" {
		apiURL = cfg.APIURL
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	kind = flags.store
	if kind == "" {
		kind = cfg.TokenStore
	}
	if kind == "" {
		kind = tokenstore.KindAuto
	}

	path = flags.storePath
	if path == "" {
		path, err = userconfig.GetTokenDBPath()
		if err != nil {
			return "", "", "", err
		}
	}

	return apiURL, kind, path, nil
}

func buildSession(cmd *cobra.Command, flags rootFlags) (*session.Provider, io.Closer, error) {
	apiURL, kind, path, err := resolveSettings(flags)
	if err != nil {
		return nil, nil, err
	}

	store, err := tokenstore.Open(kind, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open token store: %w", err)
	}

	log.Debug().
		Str("api_url", apiURL).
		Str("store", fmt.Sprintf("%T", store)).
		Msg("Starting session")

	p := session.New(cmd.Context(), authapi.New(apiURL), store, session.WithLogger(log.Logger))

	closer, _ := store.(io.Closer)
	return p, closer, nil
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
