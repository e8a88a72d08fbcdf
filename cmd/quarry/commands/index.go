// ABOUTME: CLI command to build the code-symbol index from a source tree
// ABOUTME: Parses Go files and stores symbol records for exact lookups
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	indexRepo    string
	indexReplace bool
)

// NewIndexCmd creates the index command
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <repo-dir>",
		Short: "Index a source tree for symbol lookups",
		Long: `Index a source tree for symbol lookups.

Walks the directory, parses Go sources, and records every exported
type, function, and method so ask and search_code can resolve names
without embedding anything. No API key required.

Examples:
  quarry index ~/src/dagster
  quarry index --repo dagster --replace ~/src/dagster`,
		Args: cobra.ExactArgs(1),
		RunE: runIndex,
	}

	cmd.Flags().StringVar(&indexRepo, "repo", "", "Repo name to index under (default: directory base name)")
	cmd.Flags().BoolVar(&indexReplace, "replace", false, "Drop previously indexed symbols for this repo first")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	app, err := openApp(false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	repo := indexRepo
	if repo == "" {
		repo = filepath.Base(dir)
	}

	count, err := app.index.IndexRepo(dir, repo, indexReplace)
	if err != nil {
		return fmt.Errorf("indexing %s: %w", dir, err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Indexed %d symbol(s) from %s as repo %q\n", count, dir, repo)
	}
	return nil
}
