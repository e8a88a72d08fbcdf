// ABOUTME: Benchmark runner that executes routing scenarios against the real pipeline
// ABOUTME: Uses a stub retriever so runs are deterministic, offline, and key-free

package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quarry-labs/quarry/internal/core"
	"github.com/quarry-labs/quarry/internal/models"
)

// stubRetriever satisfies every tool call with one canned result, so
// the classifier and router are exercised for real while retrieval
// stays deterministic. No database or API key is involved.
type stubRetriever struct{}

var _ core.Retriever = stubRetriever{}

func (stubRetriever) SearchCode(_ context.Context, p models.CodeIndexParams) ([]models.SymbolRecord, error) {
	name, receiver := splitQualified(p.Name)
	kind := models.SymbolType
	if receiver != "" {
		kind = models.SymbolMethod
	}

	repo := p.Repo
	if repo == "" {
		repo = "corelib"
	}

	return []models.SymbolRecord{
		{
			Name:          name,
			QualifiedName: p.Name,
			Kind:          kind,
			FilePath:      "internal/engine/engine.go",
			RelativePath:  "internal/engine/engine.go",
			Line:          42,
			EndLine:       88,
			Repo:          repo,
			Receiver:      receiver,
			Exported:      true,
		},
	}, nil
}

func (stubRetriever) GetCode(_ context.Context, p models.CodeGetParams) (*models.CodeSnippet, error) {
	name, _ := splitQualified(p.Name)
	return &models.CodeSnippet{
		Name:      p.Name,
		Kind:      models.SymbolType,
		Code:      fmt.Sprintf("func %s(ctx context.Context) error", name),
		FilePath:  "internal/engine/engine.go",
		StartLine: 42,
		EndLine:   88,
		Mode:      p.Mode,
		Language:  "go",
	}, nil
}

func (stubRetriever) SearchDocs(_ context.Context, p models.DocSearchParams) (*models.DocAnswer, error) {
	return &models.DocAnswer{
		Answer: fmt.Sprintf("Canned documentation answer for: %s", p.Question),
		Sources: []models.SourceRef{
			{SectionPath: "Guides > Overview", Filename: "guide.md", ChunkIndex: 0, Score: 0.82},
		},
		ContextUsed: []string{"canned context chunk"},
	}, nil
}

func (stubRetriever) SearchDocsEnhanced(_ context.Context, p models.EnhancedSearchParams) (*models.EnhancedAnswer, error) {
	return &models.EnhancedAnswer{
		DocAnswer: models.DocAnswer{
			Answer: fmt.Sprintf("Canned enhanced answer for: %s", p.Question),
			Sources: []models.SourceRef{
				{SectionPath: "Guides > Examples", Filename: "examples.md", ChunkIndex: 1, Score: 0.79},
			},
			ContextUsed: []string{"canned context chunk"},
		},
		Thinking: []string{"No code references worth following in canned context"},
	}, nil
}

// splitQualified separates "Receiver.method" into its parts; a plain
// name comes back unchanged with an empty receiver.
func splitQualified(qualified string) (name, receiver string) {
	receiver, name, found := strings.Cut(qualified, ".")
	if !found {
		return qualified, ""
	}
	return name, receiver
}

// BenchmarkRunner executes routing benchmark scenarios.
type BenchmarkRunner struct {
	orchestrator *core.Orchestrator
	metrics      *MetricsCalculator
	verbose      bool
}

// NewBenchmarkRunner creates a runner wired to the real classifier and
// router over the stub retriever.
func NewBenchmarkRunner(verbose bool) *BenchmarkRunner {
	router := core.NewRetrievalRouter(core.DefaultTopK, "")
	return &BenchmarkRunner{
		orchestrator: core.NewOrchestrator(stubRetriever{}, router),
		metrics:      NewMetricsCalculator(),
		verbose:      verbose,
	}
}

// RunScenario executes a single benchmark scenario.
func (r *BenchmarkRunner) RunScenario(scenario Scenario) ScenarioResult {
	if r.verbose {
		fmt.Printf("\n========================================\n")
		fmt.Printf("RUNNING: %s\n", scenario.Name)
		fmt.Printf("========================================\n")
		fmt.Printf("Question: %s\n\n", scenario.Question)
	}

	result := r.orchestrator.Execute(context.Background(), scenario.Question, core.QueryOptions{})
	eval := r.metrics.EvaluateScenario(scenario, result)

	if r.verbose {
		fmt.Printf("Intent: %s (want %s)\n", eval.GotIntent, eval.WantIntent)
		fmt.Printf("First tool: %s (want %s)\n", eval.GotFirstTool, eval.WantFirstTool)
		fmt.Printf("Confidence: %.2f (want %.2f)\n", eval.GotConfidence, eval.WantConfidence)
		fmt.Printf("Status: %s\n", eval.Status)
	}

	return eval
}

// RunScenarios executes the given scenarios in order.
func (r *BenchmarkRunner) RunScenarios(scenarios []Scenario) []ScenarioResult {
	results := make([]ScenarioResult, 0, len(scenarios))
	for _, scenario := range scenarios {
		results = append(results, r.RunScenario(scenario))
	}
	return results
}

// RunAll executes every benchmark scenario.
func (r *BenchmarkRunner) RunAll() []ScenarioResult {
	return r.RunScenarios(GetAllScenarios())
}

// ExportResults writes the run summary and per-scenario outcomes to a
// JSON file.
func (r *BenchmarkRunner) ExportResults(results []ScenarioResult, outputPath string) error {
	passed := 0
	failed := 0
	for _, result := range results {
		if result.Status == "PASS" {
			passed++
		} else {
			failed++
		}
	}

	summary := map[string]interface{}{
		"timestamp":              time.Now().Format(time.RFC3339),
		"total_scenarios":        len(results),
		"passed":                 passed,
		"failed":                 failed,
		"per_intent_accuracy":    r.metrics.PerIntentAccuracy(results),
		"confidence_calibration": r.metrics.ConfidenceCalibration(results),
		"results":                results,
	}

	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	fmt.Printf("✓ Results exported to: %s\n", outputPath)
	return nil
}
