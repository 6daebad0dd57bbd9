package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/physai-textbook/docsite/internal/config"
)

// NewConfigCmd creates the config command group
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Inspect the site configuration",
		Annotations: noSession,
	}

	var file string
	showCmd := &cobra.Command{
		Use:         "show",
		Short:       "Print the effective site config as YAML",
		Annotations: noSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout(), file)
		},
	}
	showCmd.Flags().StringVar(&file, "file", "", "Site config file (defaults to ./"+config.DefaultSiteConfigFile+", then built-in defaults)")

	cmd.AddCommand(showCmd)
	return cmd
}

func runConfigShow(out io.Writer, file string) error {
	var (
		site *config.SiteConfig
		err  error
	)

	switch {
	case file != "":
		site, err = config.LoadSite(file)
	case fileExists(config.DefaultSiteConfigFile):
		site, err = config.LoadSite(config.DefaultSiteConfigFile)
	default:
		site = config.DefaultSite()
	}
	if err != nil {
		return err
	}

	data, err := site.Marshal()
	if err != nil {
		return fmt.Errorf("failed to render site config: %w", err)
	}

	_, err = out.Write(data)
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
