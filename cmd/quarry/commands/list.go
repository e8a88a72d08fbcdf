// ABOUTME: CLI command to list ingested documents
// ABOUTME: Shows filenames, IDs, types, chunk counts, and tags
package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listTags []string
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ingested documents",
		Long: `List ingested documents.

Shows every document in the corpus with its ID, file type, chunk
count, and tags.

Examples:
  quarry list
  quarry list --tags dagster
  quarry list --format json`,
		RunE: runList,
	}

	cmd.Flags().StringSliceVar(&listTags, "tags", []string{}, "Only show documents carrying all of these tags")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	app, err := openApp(false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	documents, err := app.engine.ListDocuments(listTags)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(documents) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No documents found\n")
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(documents, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	// Table format
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FILENAME\tID\tTYPE\tCHUNKS\tTAGS\n")
	fmt.Fprintf(w, "--------\t--\t----\t------\t----\n")

	for _, doc := range documents {
		tags := "(none)"
		if len(doc.Tags) > 0 {
			tags = strings.Join(doc.Tags, ", ")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			truncate(doc.Filename, 40),
			doc.DocID,
			doc.FileType,
			doc.NumChunks,
			truncate(tags, 30))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d document(s)\n", len(documents))
	}

	return nil
}
