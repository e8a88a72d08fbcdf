// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines the quarry command tree and shared output settings
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
 ██████╗ ██╗   ██╗ █████╗ ██████╗ ██████╗ ██╗   ██╗
██╔═══██╗██║   ██║██╔══██╗██╔══██╗██╔══██╗╚██╗ ██╔╝
██║   ██║██║   ██║███████║██████╔╝██████╔╝ ╚████╔╝
██║▄▄ ██║██║   ██║██╔══██║██╔══██╗██╔══██╗  ╚██╔╝
╚██████╔╝╚██████╔╝██║  ██║██║  ██║██║  ██║   ██║
 ╚══▀▀═╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quarry",
		Short: "Documentation and code retrieval with query-aware routing",
		Long: banner + `
Quarry answers questions about libraries by classifying each query and
routing it to the cheapest retrieval tool that can ground the answer:
a code-symbol index for exact lookups, hierarchical documentation search
for concepts, or a reference-following enhanced search for deep dives.

Run 'quarry mcp' to expose the same tools to LLM agents over stdio.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format (auto, json)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewAskCmd(),
		NewIngestCmd(),
		NewIndexCmd(),
		NewListCmd(),
		NewDeleteCmd(),
		NewStatsCmd(),
		NewUsageCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
