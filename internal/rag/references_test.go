// ABOUTME: Tests for reference extraction, prioritization, and query formatting
// ABOUTME: Exercises the categorized patterns against realistic answer text
package rag

import (
	"fmt"
	"testing"
)

func testExtractor() *ReferenceExtractor {
	return NewReferenceExtractor([]string{"dagster", "pyiceberg", "iceberg", "pandas"})
}

func TestExtract_Categories(t *testing.T) {
	text := "Use AutomationCondition.eager() on your assets. " +
		"The `Sensor` type and the @asset decorator pair well; see " +
		"dagster.AutomationCondition.eager and pandas.DataFrame for details. " +
		"Call `build_schedule()` to wire it up."

	refs := testExtractor().Extract(text)

	if got := refs.TypeMethods; len(got) != 1 || got[0] != "AutomationCondition.eager" {
		t.Errorf("TypeMethods = %v", got)
	}
	if got := refs.Types; len(got) != 1 || got[0] != "Sensor" {
		t.Errorf("Types = %v", got)
	}
	if got := refs.Decorators; len(got) != 1 || got[0] != "asset" {
		t.Errorf("Decorators = %v", got)
	}
	if got := refs.Functions; len(got) != 1 || got[0] != "build_schedule" {
		t.Errorf("Functions = %v", got)
	}

	wantQualified := []string{"dagster.AutomationCondition.eager", "pandas.DataFrame"}
	if got := refs.QualifiedNames; len(got) != 2 || got[0] != wantQualified[0] || got[1] != wantQualified[1] {
		t.Errorf("QualifiedNames = %v, want %v", got, wantQualified)
	}

	foundModule := false
	for _, ref := range refs.ModuleObjects {
		if ref == "pandas.DataFrame" {
			foundModule = true
		}
	}
	if !foundModule {
		t.Errorf("ModuleObjects = %v, want pandas.DataFrame present", refs.ModuleObjects)
	}
}

func TestExtract_DottedNameWithoutCallIsNotAMethod(t *testing.T) {
	refs := testExtractor().Extract("AutomationCondition.eager is a condition.")

	if len(refs.TypeMethods) != 0 {
		t.Errorf("TypeMethods = %v, want none without a call paren", refs.TypeMethods)
	}
}

func TestExtract_DeduplicatesAndSorts(t *testing.T) {
	refs := testExtractor().Extract("`Zeta` then `Alpha` then `Zeta` again")

	want := []string{"Alpha", "Zeta"}
	if len(refs.Types) != 2 || refs.Types[0] != want[0] || refs.Types[1] != want[1] {
		t.Errorf("Types = %v, want %v", refs.Types, want)
	}
}

func TestReferences_Total(t *testing.T) {
	refs := References{
		QualifiedNames: []string{"dagster.Sensor"},
		Types:          []string{"Sensor", "Asset"},
		Decorators:     []string{"asset"},
	}
	if got := refs.Total(); got != 4 {
		t.Errorf("Total = %d, want 4", got)
	}
}

func TestPrioritize_SpecificityOrder(t *testing.T) {
	refs := References{
		QualifiedNames: []string{"dagster.AutomationCondition.eager"},
		TypeMethods:    []string{"AutomationCondition.eager"},
		Types:          []string{"AutomationCondition", "Sensor"},
		Decorators:     []string{"asset"},
	}

	got := testExtractor().Prioritize(refs, 3)

	// The method and bare type are substrings of the qualified pick, so
	// the next distinct references fill the budget.
	want := []string{"dagster.AutomationCondition.eager", "Sensor", "@asset"}
	if len(got) != len(want) {
		t.Fatalf("Prioritize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Prioritize[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPrioritize_RespectsBudget(t *testing.T) {
	refs := References{
		QualifiedNames: []string{"dagster.Alpha", "dagster.Beta", "dagster.Gamma"},
	}

	got := testExtractor().Prioritize(refs, 2)
	if len(got) != 2 {
		t.Errorf("Prioritize = %v, want 2 entries", got)
	}
}

func TestPrioritize_Empty(t *testing.T) {
	if got := testExtractor().Prioritize(References{}, 3); len(got) != 0 {
		t.Errorf("Prioritize = %v, want empty", got)
	}
}

func TestFormatQuery(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"dagster.AutomationCondition.eager", "what is AutomationCondition eager"},
		{"AutomationCondition.eager", "what is AutomationCondition eager"},
		{"@asset", "what is the @asset decorator"},
		{"Sensor", "what is Sensor"},
		{"pyiceberg.Table", "what is Table"},
		{"pandas.DataFrame", "what is DataFrame"},
	}

	x := testExtractor()
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := x.FormatQuery(tt.ref); got != tt.want {
				t.Errorf("FormatQuery(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestLookupName(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"@asset", "asset"},
		{"dagster.AutomationCondition.eager", "AutomationCondition.eager"},
		{"Sensor", "Sensor"},
	}

	x := testExtractor()
	for i, tt := range tests {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			if got := x.LookupName(tt.ref); got != tt.want {
				t.Errorf("LookupName(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
