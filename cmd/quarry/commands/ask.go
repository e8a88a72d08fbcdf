// ABOUTME: CLI command to ask a question through the smart query pipeline
// ABOUTME: Classifies the query, routes it to retrieval tools, and prints the answer
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry/internal/core"
)

var (
	askExpand bool
	askRepo   string
	askTrace  bool
	askJSON   bool
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about indexed docs and code",
		Long: `Ask a question about indexed documentation and code.

The query is classified (exact symbol, API lookup, concept, usage,
deep dive, or general) and routed to the cheapest tool chain that can
ground the answer. Failed tools fall back instead of erroring.

Examples:
  quarry ask "what is AutomationCondition.eager"
  quarry ask --expand "show me the full implementation of Gate"
  quarry ask --repo dagster --trace "how do sensors work"
  quarry ask --json "what params does build_schedule take"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().BoolVar(&askExpand, "expand", false, "Retrieve full code bodies instead of signatures")
	cmd.Flags().StringVar(&askRepo, "repo", "", "Restrict code lookups to one indexed repo")
	cmd.Flags().BoolVar(&askTrace, "trace", false, "Print the tool call trace")
	cmd.Flags().BoolVar(&askJSON, "json", false, "Emit the full result as JSON")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := openApp(true)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	result := app.orchestrator().Execute(cmd.Context(), args[0], core.QueryOptions{
		ExpandDetail: askExpand,
		RepoFilter:   askRepo,
	})

	if askJSON || outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", result.Answer)

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nQuery type: %s (confidence %.2f)\n",
			result.Classification.Type, result.Confidence)
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "Strategy: %s\n", result.Strategy.Reasoning)
		}
		if len(result.Grounding.Sources) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Sources:\n")
			for _, src := range result.Grounding.Sources {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%s, score %.4f)\n",
					src.SectionPath, src.Filename, src.Score)
			}
		}
		if len(result.Grounding.Code) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Code:\n")
			for _, ref := range result.Grounding.Code {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s %s:%d\n", ref.Name, ref.FilePath, ref.Line)
			}
		}
	}

	if askTrace || verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Trace:\n")
		for i, call := range result.ToolCalls {
			status := "ok"
			if !call.Success {
				status = "empty"
			}
			if call.Error != "" {
				status = "failed: " + call.Error
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s (%s) %s\n", i+1, call.Tool, status, call.Reasoning)
		}
	}

	if !quiet && len(result.Suggestions) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Try next:\n")
		for _, s := range result.Suggestions {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", s)
		}
	}

	return nil
}
