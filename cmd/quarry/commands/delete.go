// ABOUTME: CLI command to delete a document from the corpus
// ABOUTME: Removes all chunks stored under a document ID
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCmd creates the delete command
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <doc-id>",
		Short: "Delete a document and its chunks",
		Long: `Delete a document and all of its stored chunks.

Use 'quarry list' to find document IDs.

Examples:
  quarry delete 4f9d2c7a8b1e03d6`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	app, err := openApp(false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	docID := args[0]
	deleted, err := app.engine.DeleteDocument(docID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("document %s not found", docID)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted document %s (%d chunks)\n", docID, deleted)
	}
	return nil
}
