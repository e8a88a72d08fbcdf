// ABOUTME: Canned question scenarios for the routing benchmark
// ABOUTME: Each scenario pins the expected intent, first tool, and classifier confidence

package routing

import "github.com/quarry-labs/quarry/internal/models"

// Scenario is one benchmark question with its expected routing outcome.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Question    string
	Want        Expectation
}

// Expectation defines the ground truth for one scenario: the intent the
// classifier should assign, the tool the router should call first, and
// the confidence the classification should carry.
type Expectation struct {
	Intent     models.QueryType
	FirstTool  models.ToolKind
	Confidence float64
}

// GetSymbolLookupScenarios returns questions that name a specific code
// object and should go straight to the code index.
func GetSymbolLookupScenarios() []Scenario {
	return []Scenario{
		{
			ID:          "exact_01",
			Name:        "Dotted Method Lookup",
			Description: "Tests that 'show me' followed by a dotted symbol routes to an exact code index search",
			Question:    "show me AssetGraph.resolve",
			Want: Expectation{
				Intent:     models.QueryExactSymbol,
				FirstTool:  models.ToolCodeIndex,
				Confidence: 0.9,
			},
		},
		{
			ID:          "exact_02",
			Name:        "Capitalized What-Does Lookup",
			Description: "Tests that 'what does' followed by a capitalized name is a symbol lookup, not a concept question",
			Question:    "what does BackfillPlanner return",
			Want: Expectation{
				Intent:     models.QueryExactSymbol,
				FirstTool:  models.ToolCodeIndex,
				Confidence: 0.9,
			},
		},
		{
			ID:          "exact_03",
			Name:        "Signature Request",
			Description: "Tests that asking for a signature routes to the code index",
			Question:    "signature of PartitionSet",
			Want: Expectation{
				Intent:     models.QueryExactSymbol,
				FirstTool:  models.ToolCodeIndex,
				Confidence: 0.9,
			},
		},
		{
			ID:          "exact_04",
			Name:        "Backticked Symbol",
			Description: "Tests that a backticked capitalized name wins over the lowercase concept pattern",
			Question:    "what is `ScheduleSpec` here",
			Want: Expectation{
				Intent:     models.QueryExactSymbol,
				FirstTool:  models.ToolCodeIndex,
				Confidence: 0.9,
			},
		},
	}
}

// GetSymbolBrowseScenarios returns questions that explore a symbol's
// surface rather than fetch one definition.
func GetSymbolBrowseScenarios() []Scenario {
	return []Scenario{
		{
			ID:          "browse_01",
			Name:        "Method Listing",
			Description: "Tests that asking for a type's methods routes to browsing, not exact lookup",
			Question:    "what methods does TableWriter have",
			Want: Expectation{
				Intent:     models.QuerySymbolBrowse,
				FirstTool:  models.ToolCodeIndex,
				Confidence: 0.85,
			},
		},
		{
			ID:          "browse_02",
			Name:        "Definition Site",
			Description: "Tests that 'where is X defined' routes to browsing",
			Question:    "where is SensorLoop defined",
			Want: Expectation{
				Intent:     models.QuerySymbolBrowse,
				FirstTool:  models.ToolCodeIndex,
				Confidence: 0.85,
			},
		},
		{
			ID:          "browse_03",
			Name:        "Caller Search",
			Description: "Tests that asking for callers of a dotted symbol routes to browsing",
			Question:    "callers of RetryPolicy.wait",
			Want: Expectation{
				Intent:     models.QuerySymbolBrowse,
				FirstTool:  models.ToolCodeIndex,
				Confidence: 0.85,
			},
		},
	}
}

// GetDebugScenarios returns misbehavior questions. The first tool
// depends on whether the question names a symbol to inspect.
func GetDebugScenarios() []Scenario {
	return []Scenario{
		{
			ID:          "debug_01",
			Name:        "Why Question Without Symbol",
			Description: "Tests that a 'why is' question with no symbol goes to docs for troubleshooting",
			Question:    "why is my backfill stuck at the first partition",
			Want: Expectation{
				Intent:     models.QueryDebugBehavior,
				FirstTool:  models.ToolDocSearch,
				Confidence: 0.85,
			},
		},
		{
			ID:          "debug_02",
			Name:        "Error With Symbol",
			Description: "Tests that an error report naming a symbol checks the implementation before docs",
			Question:    "error with ScheduleSpec in the nightly pipeline",
			Want: Expectation{
				Intent:     models.QueryDebugBehavior,
				FirstTool:  models.ToolCodeIndex,
				Confidence: 0.85,
			},
		},
		{
			ID:          "debug_03",
			Name:        "Debug Verb Without Symbol",
			Description: "Tests that a bare 'debug' request without symbols goes to docs",
			Question:    "debug the reconciliation loop",
			Want: Expectation{
				Intent:     models.QueryDebugBehavior,
				FirstTool:  models.ToolDocSearch,
				Confidence: 0.85,
			},
		},
	}
}

// GetComparisonScenarios returns questions weighing two alternatives.
func GetComparisonScenarios() []Scenario {
	return []Scenario{
		{
			ID:          "compare_01",
			Name:        "Difference Between",
			Description: "Tests that 'difference between X and Y' routes to a widened doc search",
			Question:    "difference between schedules and sensors",
			Want: Expectation{
				Intent:     models.QueryComparison,
				FirstTool:  models.ToolDocSearch,
				Confidence: 0.8,
			},
		},
		{
			ID:          "compare_02",
			Name:        "Library Versus Library",
			Description: "Tests that 'X vs Y' with known library names routes to docs with library tags",
			Question:    "polars vs pandas for batch transforms",
			Want: Expectation{
				Intent:     models.QueryComparison,
				FirstTool:  models.ToolDocSearch,
				Confidence: 0.8,
			},
		},
		{
			ID:          "compare_03",
			Name:        "Should I Use",
			Description: "Tests that 'should I use X or Y' is a comparison, not a how-to",
			Question:    "should I use duckdb or polars here",
			Want: Expectation{
				Intent:     models.QueryComparison,
				FirstTool:  models.ToolDocSearch,
				Confidence: 0.8,
			},
		},
	}
}

// GetHowToScenarios returns usage-guidance questions that should use
// the enhanced doc search with reference following.
func GetHowToScenarios() []Scenario {
	return []Scenario{
		{
			ID:          "howto_01",
			Name:        "How Do I Create",
			Description: "Tests that 'how do I create' routes to the enhanced doc search",
			Question:    "how do I create a partitioned asset",
			Want: Expectation{
				Intent:     models.QueryHowTo,
				FirstTool:  models.ToolDocSearchEnhanced,
				Confidence: 0.8,
			},
		},
		{
			ID:          "howto_02",
			Name:        "Example Request",
			Description: "Tests that asking for an example routes to the enhanced doc search",
			Question:    "example of using a custom retry policy",
			Want: Expectation{
				Intent:     models.QueryHowTo,
				FirstTool:  models.ToolDocSearchEnhanced,
				Confidence: 0.8,
			},
		},
		{
			ID:          "howto_03",
			Name:        "Steps With Library Hint",
			Description: "Tests that 'steps to configure' with a library name routes to enhanced docs",
			Question:    "steps to configure a dagster schedule",
			Want: Expectation{
				Intent:     models.QueryHowTo,
				FirstTool:  models.ToolDocSearchEnhanced,
				Confidence: 0.8,
			},
		},
	}
}

// GetConceptScenarios returns lowercase domain questions that should be
// answered from documentation.
func GetConceptScenarios() []Scenario {
	return []Scenario{
		{
			ID:          "concept_01",
			Name:        "How Does It Work",
			Description: "Tests that a lowercase 'how does X work' question routes to docs",
			Question:    "how does partition mapping work",
			Want: Expectation{
				Intent:     models.QueryConceptExplain,
				FirstTool:  models.ToolDocSearch,
				Confidence: 0.75,
			},
		},
		{
			ID:          "concept_02",
			Name:        "Lowercase What-Are",
			Description: "Tests that 'what are' followed by a lowercase phrase is a concept, not a symbol",
			Question:    "what are asset partitions?",
			Want: Expectation{
				Intent:     models.QueryConceptExplain,
				FirstTool:  models.ToolDocSearch,
				Confidence: 0.75,
			},
		},
		{
			ID:          "concept_03",
			Name:        "Explain Request",
			Description: "Tests that an 'explain' request routes to docs",
			Question:    "explain late materialization",
			Want: Expectation{
				Intent:     models.QueryConceptExplain,
				FirstTool:  models.ToolDocSearch,
				Confidence: 0.75,
			},
		},
	}
}

// GetFallbackScenarios returns questions no intent pattern matches, so
// classification falls through to extracted hints or the unknown bucket.
func GetFallbackScenarios() []Scenario {
	return []Scenario{
		{
			ID:          "fallback_01",
			Name:        "Bare Symbol Mention",
			Description: "Tests that an unmatched question naming a symbol degrades to a low-confidence lookup",
			Question:    "PartitionSet cache invalidation details",
			Want: Expectation{
				Intent:     models.QueryExactSymbol,
				FirstTool:  models.ToolCodeIndex,
				Confidence: 0.5,
			},
		},
		{
			ID:          "fallback_02",
			Name:        "Bare Concept Mention",
			Description: "Tests that an unmatched question with a domain keyword degrades to a concept explanation",
			Question:    "backfill window sizing guidance",
			Want: Expectation{
				Intent:     models.QueryConceptExplain,
				FirstTool:  models.ToolDocSearch,
				Confidence: 0.5,
			},
		},
		{
			ID:          "unknown_01",
			Name:        "No Hints At All",
			Description: "Tests that a question with no patterns, symbols, or keywords falls to a broad search",
			Question:    "thoughts on the current setup",
			Want: Expectation{
				Intent:     models.QueryUnknownTarget,
				FirstTool:  models.ToolDocSearch,
				Confidence: 0.3,
			},
		},
		{
			ID:          "unknown_02",
			Name:        "Vague Follow Up",
			Description: "Tests that vague chatter routes to a broad doc search at low confidence",
			Question:    "anything new in the docs lately",
			Want: Expectation{
				Intent:     models.QueryUnknownTarget,
				FirstTool:  models.ToolDocSearch,
				Confidence: 0.3,
			},
		},
	}
}

// GetAllScenarios returns every benchmark scenario in a stable order.
func GetAllScenarios() []Scenario {
	var all []Scenario
	all = append(all, GetSymbolLookupScenarios()...)
	all = append(all, GetSymbolBrowseScenarios()...)
	all = append(all, GetDebugScenarios()...)
	all = append(all, GetComparisonScenarios()...)
	all = append(all, GetHowToScenarios()...)
	all = append(all, GetConceptScenarios()...)
	all = append(all, GetFallbackScenarios()...)
	return all
}

// ScenariosForIntent returns the scenarios whose expected intent
// matches, preserving benchmark order. Unknown intents yield nil.
func ScenariosForIntent(intent models.QueryType) []Scenario {
	var matched []Scenario
	for _, s := range GetAllScenarios() {
		if s.Want.Intent == intent {
			matched = append(matched, s)
		}
	}
	return matched
}
