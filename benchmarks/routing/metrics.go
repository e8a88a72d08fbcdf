// ABOUTME: Scoring for routing benchmark runs against scenario ground truth
// ABOUTME: Per-scenario pass/fail plus per-intent accuracy and confidence calibration

package routing

import (
	"math"
	"sort"
	"strings"

	"github.com/quarry-labs/quarry/internal/models"
)

// MetricsCalculator scores benchmark runs against scenario expectations.
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator.
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// ScenarioResult is the scored outcome of one benchmark scenario.
type ScenarioResult struct {
	ScenarioID       string                 `json:"scenario_id"`
	ScenarioName     string                 `json:"scenario_name"`
	Question         string                 `json:"question"`
	WantIntent       models.QueryType       `json:"want_intent"`
	GotIntent        models.QueryType       `json:"got_intent"`
	WantFirstTool    models.ToolKind        `json:"want_first_tool"`
	GotFirstTool     models.ToolKind        `json:"got_first_tool"`
	WantConfidence   float64                `json:"want_confidence"`
	GotConfidence    float64                `json:"got_confidence"`
	IntentCorrect    bool                   `json:"intent_correct"`
	FirstToolCorrect bool                   `json:"first_tool_correct"`
	Status           string                 `json:"status"`
	Details          map[string]interface{} `json:"details,omitempty"`
}

// IntentAccuracy aggregates scenario outcomes for one expected intent.
type IntentAccuracy struct {
	Intent   models.QueryType `json:"intent"`
	Total    int              `json:"total"`
	Correct  int              `json:"correct"`
	Accuracy float64          `json:"accuracy"`
}

// CalibrationBucket groups scenarios by the confidence the classifier
// reported and compares it against how often the intent was right.
type CalibrationBucket struct {
	Label            string  `json:"label"`
	Count            int     `json:"count"`
	MeanConfidence   float64 `json:"mean_confidence"`
	ObservedAccuracy float64 `json:"observed_accuracy"`
}

// calibrationBounds are the fixed confidence bands, matching the
// classifier's cascade tiers: unknown, degraded fallback, pattern hits,
// and high-certainty symbol lookups.
var calibrationBounds = []struct {
	label     string
	low, high float64
}{
	{"0.00-0.49", 0.0, 0.5},
	{"0.50-0.69", 0.5, 0.7},
	{"0.70-0.89", 0.7, 0.9},
	{"0.90-1.00", 0.9, 1.01},
}

// EvaluateScenario scores one orchestrator result against its
// scenario's ground truth. A scenario passes when the intent and first
// tool both match and the run produced a non-empty answer.
func (m *MetricsCalculator) EvaluateScenario(scenario Scenario, result *models.QueryResult) ScenarioResult {
	gotFirstTool := firstToolOf(result)
	answered := strings.TrimSpace(result.Answer) != ""

	eval := ScenarioResult{
		ScenarioID:       scenario.ID,
		ScenarioName:     scenario.Name,
		Question:         scenario.Question,
		WantIntent:       scenario.Want.Intent,
		GotIntent:        result.Classification.Type,
		WantFirstTool:    scenario.Want.FirstTool,
		GotFirstTool:     gotFirstTool,
		WantConfidence:   scenario.Want.Confidence,
		GotConfidence:    result.Classification.Confidence,
		IntentCorrect:    result.Classification.Type == scenario.Want.Intent,
		FirstToolCorrect: gotFirstTool == scenario.Want.FirstTool,
	}

	eval.Status = "FAIL"
	if eval.IntentCorrect && eval.FirstToolCorrect && answered {
		eval.Status = "PASS"
	}

	eval.Details = map[string]interface{}{
		"answered":           answered,
		"tool_calls":         len(result.ToolCalls),
		"confidence_matched": math.Abs(eval.GotConfidence-eval.WantConfidence) < 0.001,
		"strategy_reasoning": result.Strategy.Reasoning,
	}

	return eval
}

// PerIntentAccuracy groups results by expected intent and reports the
// fraction that passed, sorted by intent name for stable output.
func (m *MetricsCalculator) PerIntentAccuracy(results []ScenarioResult) []IntentAccuracy {
	byIntent := make(map[models.QueryType]*IntentAccuracy)
	for _, r := range results {
		acc, ok := byIntent[r.WantIntent]
		if !ok {
			acc = &IntentAccuracy{Intent: r.WantIntent}
			byIntent[r.WantIntent] = acc
		}
		acc.Total++
		if r.Status == "PASS" {
			acc.Correct++
		}
	}

	out := make([]IntentAccuracy, 0, len(byIntent))
	for _, acc := range byIntent {
		acc.Accuracy = float64(acc.Correct) / float64(acc.Total)
		out = append(out, *acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Intent < out[j].Intent })
	return out
}

// ConfidenceCalibration buckets results by reported confidence and
// reports observed intent accuracy per bucket. Well calibrated output
// shows accuracy rising with confidence. Empty buckets stay in the
// report with zero counts so runs are comparable.
func (m *MetricsCalculator) ConfidenceCalibration(results []ScenarioResult) []CalibrationBucket {
	buckets := make([]CalibrationBucket, len(calibrationBounds))
	sums := make([]float64, len(calibrationBounds))
	correct := make([]int, len(calibrationBounds))

	for i, b := range calibrationBounds {
		buckets[i].Label = b.label
	}

	for _, r := range results {
		for i, b := range calibrationBounds {
			if r.GotConfidence >= b.low && r.GotConfidence < b.high {
				buckets[i].Count++
				sums[i] += r.GotConfidence
				if r.IntentCorrect {
					correct[i]++
				}
				break
			}
		}
	}

	for i := range buckets {
		if buckets[i].Count == 0 {
			continue
		}
		buckets[i].MeanConfidence = sums[i] / float64(buckets[i].Count)
		buckets[i].ObservedAccuracy = float64(correct[i]) / float64(buckets[i].Count)
	}

	return buckets
}

// firstToolOf reads the first attempted tool from a result's trace.
func firstToolOf(result *models.QueryResult) models.ToolKind {
	if len(result.ToolCalls) == 0 {
		return ""
	}
	return result.ToolCalls[0].Tool
}
