// ABOUTME: CLI command to ingest a documentation directory
// ABOUTME: Walks the tree and embeds matching files through a worker pool
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry/internal/ingest"
)

var (
	ingestTags     []string
	ingestBasePath string
	ingestWorkers  int
	ingestInclude  []string
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Ingest a directory of documentation",
		Long: `Ingest a directory of documentation files.

Matching files are chunked along their heading hierarchy, embedded,
and stored for retrieval. Ingestion stops early when the API rate
limit is hit; already-queued files are reported as skipped.

Examples:
  quarry ingest ./docs
  quarry ingest --tags dagster,concepts ./docs/concepts
  quarry ingest --include "*.md" --workers 4 ./docs
  quarry ingest --base-path ./docs ./docs/guides`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().StringSliceVar(&ingestTags, "tags", []string{}, "Tags applied to every ingested document")
	cmd.Flags().StringVar(&ingestBasePath, "base-path", "", "Base for deriving section prefixes (defaults to the scanned dir)")
	cmd.Flags().IntVar(&ingestWorkers, "workers", 0, "Concurrent ingestion workers (default: half the CPUs)")
	cmd.Flags().StringSliceVar(&ingestInclude, "include", []string{}, "Glob patterns for files to ingest (default: *.md, *.txt)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	app, err := openApp(true)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	pipeline := ingest.New(app.engine, ingest.Options{
		Tags:     ingestTags,
		BasePath: ingestBasePath,
		Include:  ingestInclude,
		Workers:  ingestWorkers,
	})

	summary, err := pipeline.Run(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", args[0], err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(buildIngestReport(summary), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if verbose {
		for _, res := range summary.Results {
			if res.Err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", res.Path, res.Err)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (%d chunks)\n", res.Path, res.Chunks)
			}
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d/%d file(s), %d chunk(s)\n",
			summary.Succeeded, summary.Scanned(), summary.Chunks)
		if summary.Failed > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d file(s) failed (rerun with --verbose for details)\n", summary.Failed)
		}
		if len(summary.Skipped) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d file(s) skipped\n", len(summary.Skipped))
		}
	}

	if summary.RateLimited != nil {
		return fmt.Errorf("ingestion stopped early: %w", summary.RateLimited)
	}
	return nil
}

// ingestReport is the JSON shape of an ingestion run.
type ingestReport struct {
	Scanned     int          `json:"scanned"`
	Succeeded   int          `json:"succeeded"`
	Failed      int          `json:"failed"`
	Chunks      int          `json:"chunks"`
	Skipped     []string     `json:"skipped,omitempty"`
	RateLimited string       `json:"rate_limited,omitempty"`
	Files       []fileReport `json:"files"`
}

type fileReport struct {
	Path   string `json:"path"`
	DocID  string `json:"doc_id,omitempty"`
	Chunks int    `json:"chunks"`
	Error  string `json:"error,omitempty"`
}

func buildIngestReport(summary *ingest.Summary) ingestReport {
	report := ingestReport{
		Scanned:   summary.Scanned(),
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		Chunks:    summary.Chunks,
		Skipped:   summary.Skipped,
		Files:     make([]fileReport, 0, len(summary.Results)),
	}
	if summary.RateLimited != nil {
		report.RateLimited = summary.RateLimited.Error()
	}
	for _, res := range summary.Results {
		file := fileReport{Path: res.Path, DocID: res.DocID, Chunks: res.Chunks}
		if res.Err != nil {
			file.Error = res.Err.Error()
		}
		report.Files = append(report.Files, file)
	}
	return report
}
