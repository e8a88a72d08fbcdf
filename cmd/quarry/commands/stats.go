// ABOUTME: CLI command to show corpus and index statistics
// ABOUTME: Reports document, chunk, symbol, and repo counts
package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show corpus and code index statistics",
		Long: `Show corpus and code index statistics.

Examples:
  quarry stats
  quarry stats --format json`,
		RunE: runStats,
	}

	return cmd
}

type statsReport struct {
	TotalDocuments int            `json:"total_documents"`
	TotalChunks    int            `json:"total_chunks"`
	TotalSymbols   int            `json:"total_symbols"`
	Repos          map[string]int `json:"repos"`
}

func runStats(cmd *cobra.Command, args []string) error {
	app, err := openApp(false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	corpus, err := app.engine.Stats()
	if err != nil {
		return fmt.Errorf("reading corpus stats: %w", err)
	}
	symbols, err := app.index.Count()
	if err != nil {
		return fmt.Errorf("counting symbols: %w", err)
	}
	repos, err := app.index.Repos()
	if err != nil {
		return fmt.Errorf("listing repos: %w", err)
	}

	report := statsReport{
		TotalDocuments: corpus.TotalDocuments,
		TotalChunks:    corpus.TotalChunks,
		TotalSymbols:   symbols,
		Repos:          repos,
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Documents: %d\n", report.TotalDocuments)
	fmt.Fprintf(cmd.OutOrStdout(), "Chunks:    %d\n", report.TotalChunks)
	fmt.Fprintf(cmd.OutOrStdout(), "Symbols:   %d\n", report.TotalSymbols)

	if len(report.Repos) > 0 {
		names := make([]string, 0, len(report.Repos))
		for name := range report.Repos {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(cmd.OutOrStdout(), "\n")
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "REPO\tSYMBOLS\n")
		fmt.Fprintf(w, "----\t-------\n")
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%d\n", name, report.Repos[name])
		}
		w.Flush()
	}

	return nil
}
