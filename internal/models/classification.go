// ABOUTME: Query intent classification produced once per incoming question
// ABOUTME: Seven intents plus extracted symbol/concept/library hints
package models

// QueryType is the classified intent of a question
type QueryType string

const (
	// QueryExactSymbol - asking for a specific named code object
	QueryExactSymbol QueryType = "exact_symbol"

	// QuerySymbolBrowse - exploring a symbol's surface (methods, definition site, usages)
	QuerySymbolBrowse QueryType = "symbol_browse"

	// QueryConceptExplain - asking how a domain concept works
	QueryConceptExplain QueryType = "concept_explain"

	// QueryHowTo - asking for usage guidance or examples
	QueryHowTo QueryType = "how_to"

	// QueryDebugBehavior - asking why something fails or misbehaves
	QueryDebugBehavior QueryType = "debug_behavior"

	// QueryComparison - asking how two things differ
	QueryComparison QueryType = "comparison"

	// QueryUnknownTarget - no pattern matched and no hints extracted
	QueryUnknownTarget QueryType = "unknown_target"
)

// QueryClassification is the classifier's verdict for one question
type QueryClassification struct {
	Type       QueryType `json:"type"`
	Confidence float64   `json:"confidence"`
	Symbols    []string  `json:"symbols"`
	Concepts   []string  `json:"concepts"`
	Libraries  []string  `json:"libraries"`
	Reasoning  string    `json:"reasoning"`
}

// PrimarySymbol returns the first extracted symbol, or "" when none exists
func (c QueryClassification) PrimarySymbol() string {
	if len(c.Symbols) == 0 {
		return ""
	}
	return c.Symbols[0]
}
