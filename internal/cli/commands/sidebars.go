package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/physai-textbook/docsite/internal/content"
)

const defaultSidebarsFile = "sidebars.yaml"

// NewSidebarsCmd creates the sidebars command group
func NewSidebarsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:         "sidebars",
		Short:       "Inspect the textbook navigation",
		Annotations: noSession,
	}
	cmd.PersistentFlags().StringVar(&file, "file", "", "Sidebars file (defaults to ./sidebars.yaml, then built-in navigation)")

	printCmd := &cobra.Command{
		Use:         "print",
		Short:       "Print the sidebars as YAML",
		Annotations: noSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSidebarsPrint(cmd.OutOrStdout(), file)
		},
	}

	var docsDir string
	checkCmd := &cobra.Command{
		Use:         "check",
		Short:       "Validate the sidebars and check every doc exists",
		Annotations: noSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSidebarsCheck(cmd.OutOrStdout(), file, docsDir)
		},
	}
	checkCmd.Flags().StringVar(&docsDir, "docs", "docs", "Docs source directory")

	cmd.AddCommand(printCmd, checkCmd)
	return cmd
}

// loadSidebars reads file, or the default file when present, or the built-in navigation
func loadSidebars(file string) (content.Sidebars, error) {
	if file != "" {
		return content.LoadSidebars(file)
	}

	if _, err := os.Stat(defaultSidebarsFile); errors.Is(err, fs.ErrNotExist) {
		return content.DefaultSidebars(), nil
	}
	return content.LoadSidebars(defaultSidebarsFile)
}

func runSidebarsPrint(out io.Writer, file string) error {
	sidebars, err := loadSidebars(file)
	if err != nil {
		return err
	}

	data, err := sidebars.Marshal()
	if err != nil {
		return fmt.Errorf("failed to render sidebars: %w", err)
	}

	_, err = out.Write(data)
	return err
}

func runSidebarsCheck(out io.Writer, file, docsDir string) error {
	sidebars, err := loadSidebars(file)
	if err != nil {
		return err
	}

	if err := sidebars.Validate(); err != nil {
		return fmt.Errorf("invalid sidebars: %w", err)
	}

	missing, err := sidebars.CheckDocs(docsDir)
	if err != nil {
		return err
	}

	if len(missing) > 0 {
		for _, id := range missing {
			fmt.Fprintf(out, "✗ missing doc: %s\n", id)
		}
		return fmt.Errorf("%d of %d docs missing under %s", len(missing), len(sidebars.DocIDs()), docsDir)
	}

	fmt.Fprintf(out, "✓ %d sidebars, %d docs, all present\n", len(sidebars), len(sidebars.DocIDs()))
	return nil
}
