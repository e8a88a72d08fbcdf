// ABOUTME: Tests for benchmark scenario definitions and lookup helpers
// ABOUTME: Guards scenario uniqueness, intent coverage, and expectation shape

package routing

import (
	"testing"

	"github.com/quarry-labs/quarry/internal/models"
)

func TestGetAllScenarios_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range GetAllScenarios() {
		if seen[s.ID] {
			t.Errorf("duplicate scenario ID %q", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestGetAllScenarios_GroupTotals(t *testing.T) {
	groups := [][]Scenario{
		GetSymbolLookupScenarios(),
		GetSymbolBrowseScenarios(),
		GetDebugScenarios(),
		GetComparisonScenarios(),
		GetHowToScenarios(),
		GetConceptScenarios(),
		GetFallbackScenarios(),
	}

	want := 0
	for _, g := range groups {
		want += len(g)
	}

	if got := len(GetAllScenarios()); got != want {
		t.Errorf("len(GetAllScenarios()) = %d, want %d", got, want)
	}
}

func TestGetAllScenarios_CoversEveryIntent(t *testing.T) {
	wantIntents := []models.QueryType{
		models.QueryExactSymbol,
		models.QuerySymbolBrowse,
		models.QueryConceptExplain,
		models.QueryHowTo,
		models.QueryDebugBehavior,
		models.QueryComparison,
		models.QueryUnknownTarget,
	}

	covered := make(map[models.QueryType]bool)
	for _, s := range GetAllScenarios() {
		covered[s.Want.Intent] = true
	}

	for _, intent := range wantIntents {
		if !covered[intent] {
			t.Errorf("no scenario covers intent %s", intent)
		}
	}
}

func TestGetAllScenarios_ExpectationShape(t *testing.T) {
	validTools := map[models.ToolKind]bool{
		models.ToolCodeIndex:         true,
		models.ToolCodeGet:           true,
		models.ToolDocSearch:         true,
		models.ToolDocSearchEnhanced: true,
	}

	for _, s := range GetAllScenarios() {
		if s.ID == "" || s.Name == "" || s.Question == "" {
			t.Errorf("scenario %+v has empty identity fields", s)
		}
		if !validTools[s.Want.FirstTool] {
			t.Errorf("scenario %s expects unknown tool %q", s.ID, s.Want.FirstTool)
		}
		if s.Want.Confidence <= 0 || s.Want.Confidence > 1 {
			t.Errorf("scenario %s confidence = %v, want (0, 1]", s.ID, s.Want.Confidence)
		}
	}
}

func TestScenariosForIntent(t *testing.T) {
	// Four pattern scenarios plus the bare-symbol fallback.
	exact := ScenariosForIntent(models.QueryExactSymbol)
	if len(exact) != 5 {
		t.Errorf("len(exact) = %d, want 5", len(exact))
	}
	for _, s := range exact {
		if s.Want.Intent != models.QueryExactSymbol {
			t.Errorf("scenario %s has intent %s", s.ID, s.Want.Intent)
		}
	}

	if got := ScenariosForIntent("no_such_intent"); got != nil {
		t.Errorf("unknown intent should yield nil, got %v", got)
	}
}
