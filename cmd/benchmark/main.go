// ABOUTME: Command-line runner for the query routing benchmarks
// ABOUTME: Executes canned scenarios offline and outputs JSON results

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/quarry-labs/quarry/benchmarks/routing"
	"github.com/quarry-labs/quarry/internal/models"
)

func main() {
	// Command-line flags
	intentFilter := flag.String("intent", "", "Run only scenarios for one intent (e.g. exact_symbol, how_to). If empty, runs all scenarios.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	// Print header
	fmt.Println("========================================")
	fmt.Println("Quarry Routing Benchmarks")
	fmt.Println("========================================")
	fmt.Println()

	// Select scenarios. Runs are fully offline: canned questions against
	// the real classifier and router over a stub retriever.
	var scenarios []routing.Scenario
	if *intentFilter == "" {
		fmt.Println("Running all routing benchmark scenarios...")
		fmt.Println()
		scenarios = routing.GetAllScenarios()
	} else {
		scenarios = routing.ScenariosForIntent(models.QueryType(*intentFilter))
		if len(scenarios) == 0 {
			log.Fatalf("Unknown intent: %s (valid options: exact_symbol, symbol_browse, concept_explain, how_to, debug_behavior, comparison, unknown_target)", *intentFilter)
		}
		fmt.Printf("Running %d scenario(s) for intent %s...\n\n", len(scenarios), *intentFilter)
	}

	runner := routing.NewBenchmarkRunner(*verbose)
	results := runner.RunScenarios(scenarios)

	// Print summary
	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	passed := 0
	failed := 0

	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.ScenarioID, result.ScenarioName)
		fmt.Printf("  Intent: %s (want %s)\n", result.GotIntent, result.WantIntent)
		fmt.Printf("  First tool: %s (want %s)\n", result.GotFirstTool, result.WantFirstTool)
		fmt.Printf("  Status: %s\n", result.Status)

		if result.Status == "PASS" {
			passed++
		} else {
			failed++
		}
	}

	metrics := routing.NewMetricsCalculator()

	fmt.Println("\n========================================")
	fmt.Println("PER-INTENT ACCURACY")
	fmt.Println("========================================")
	for _, acc := range metrics.PerIntentAccuracy(results) {
		fmt.Printf("%-16s %d/%d (%.0f%%)\n", acc.Intent, acc.Correct, acc.Total, acc.Accuracy*100)
	}

	fmt.Println("\n========================================")
	fmt.Println("CONFIDENCE CALIBRATION")
	fmt.Println("========================================")
	for _, bucket := range metrics.ConfidenceCalibration(results) {
		if bucket.Count == 0 {
			fmt.Printf("%s  (no scenarios)\n", bucket.Label)
			continue
		}
		fmt.Printf("%s  n=%d  mean confidence %.2f  observed accuracy %.2f\n",
			bucket.Label, bucket.Count, bucket.MeanConfidence, bucket.ObservedAccuracy)
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Scenarios: %d\n", len(results))
	fmt.Printf("Passed: %d\n", passed)
	fmt.Printf("Failed: %d\n", failed)
	fmt.Println("========================================")

	// Export results
	if err := runner.ExportResults(results, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}

	// Exit with error code if any scenarios failed
	if failed > 0 {
		os.Exit(1)
	}
}
