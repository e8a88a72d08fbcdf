// ABOUTME: CLI command to show API usage against rate limit ceilings
// ABOUTME: Reports rolling window consumption and reset ETAs
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry/internal/models"
)

// NewUsageCmd creates the usage command
func NewUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show API usage against rate limits",
		Long: `Show current API usage against the configured rate limit ceilings.

Reports requests per minute, tokens per minute, and requests per day
from the persistent call ledger, with the time until each rolling
window frees up.

Examples:
  quarry usage
  quarry usage --format json`,
		RunE: runUsage,
	}

	return cmd
}

func runUsage(cmd *cobra.Command, args []string) error {
	app, err := openApp(false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	usage, err := app.gate.Usage()
	if err != nil {
		return fmt.Errorf("reading usage: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(usage, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	printWindow(cmd, "Requests/minute", usage.RequestsPerMinute)
	printWindow(cmd, "Tokens/minute", usage.TokensPerMinute)
	printWindow(cmd, "Requests/day", usage.RequestsPerDay)

	return nil
}

func printWindow(cmd *cobra.Command, label string, w models.WindowUsage) {
	line := fmt.Sprintf("%-16s %d/%d (%d remaining)", label+":", w.Used, w.Limit, w.Remaining())
	if w.Used > 0 {
		line += fmt.Sprintf(", resets in %s", formatReset(w))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", line)
}
