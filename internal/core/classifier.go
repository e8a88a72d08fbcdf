// ABOUTME: QueryClassifier assigns one of seven intents via an ordered pattern cascade
// ABOUTME: Also extracts symbol, concept, and library hints independent of intent
package core

import (
	"regexp"
	"sort"
	"strings"

	"github.com/quarry-labs/quarry/internal/models"
)

// intentRule pairs one intent with its pattern group, fixed confidence,
// and reasoning string. Rules are evaluated in declaration order and the
// first group with any matching pattern wins.
type intentRule struct {
	queryType  models.QueryType
	confidence float64
	reasoning  string
	patterns   []*regexp.Regexp
}

// compileInsensitive builds the case-insensitive intent patterns.
func compileInsensitive(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + expr)
	}
	return out
}

// intentRules is the precedence cascade, most specific patterns first.
var intentRules = []intentRule{
	{
		queryType:  models.QueryExactSymbol,
		confidence: 0.9,
		reasoning:  "Query matches exact symbol lookup pattern (show/get/what is X.y)",
		patterns: compileInsensitive(
			`(?:show|get|display|view|open)\s+(?:me\s+)?([A-Z][a-zA-Z0-9]*(?:\.[a-z_][a-zA-Z0-9_]*)*)`,
			`what\s+(?:is|does)\s+([A-Z][a-zA-Z0-9]*(?:\.[a-z_][a-zA-Z0-9_]*)*)`,
			`(?:definition|signature)\s+(?:of|for)\s+([A-Z][a-zA-Z0-9]*(?:\.[a-z_][a-zA-Z0-9_]*)*)`,
			"`([A-Z][a-zA-Z0-9]*(?:\\.[a-z_][a-zA-Z0-9_]*)*)`",
		),
	},
	{
		queryType:  models.QuerySymbolBrowse,
		confidence: 0.85,
		reasoning:  "Query matches symbol browsing pattern (methods/usages/where)",
		patterns: compileInsensitive(
			`(?:what|which|list)\s+(?:methods|functions|classes|attributes)\s+(?:does|in|of)\s+([A-Z][a-zA-Z0-9]*)`,
			`(?:where|find)\s+(?:is|are)\s+([A-Z][a-zA-Z0-9]*)\s+(?:implemented|defined|located)`,
			`(?:usages?|callers?|references?)\s+(?:of|to)\s+([A-Z][a-zA-Z0-9]*(?:\.[a-z_][a-zA-Z0-9_]*)*)`,
			`(?:what|show)\s+(?:can|methods)\s+(?:I|you)\s+(?:do|call)\s+(?:with|on)\s+([A-Z][a-zA-Z0-9]*)`,
		),
	},
	{
		queryType:  models.QueryDebugBehavior,
		confidence: 0.85,
		reasoning:  "Query matches debugging pattern (why/error/failing)",
		patterns: compileInsensitive(
			`why\s+(?:is|does|doesn't|am\s+I\s+getting)\s+([a-zA-Z0-9_\s]+)`,
			`(?:error|exception|issue|problem)\s+(?:with|in|on)\s+([a-zA-Z0-9_\s]+)`,
			`(?:failing|broken|not\s+working)\s+([a-zA-Z0-9_\s]+)`,
			`debug\s+([a-zA-Z0-9_\s]+)`,
			`I\s+get\s+(?:error|exception)`,
		),
	},
	{
		queryType:  models.QueryComparison,
		confidence: 0.8,
		reasoning:  "Query matches comparison pattern (difference/vs/compare)",
		patterns: compileInsensitive(
			`(?:difference|differ)\s+(?:between|vs)\s+([a-zA-Z0-9_\s]+?)\s+(?:and|vs)\s+([a-zA-Z0-9_\s]+)`,
			`([a-zA-Z0-9_]+)\s+vs\s+([a-zA-Z0-9_]+)`,
			`compare\s+([a-zA-Z0-9_\s]+?)\s+(?:and|to|with)\s+([a-zA-Z0-9_\s]+)`,
			`(?:which|should\s+I\s+use)\s+([a-zA-Z0-9_]+)\s+or\s+([a-zA-Z0-9_]+)`,
		),
	},
	{
		queryType:  models.QueryHowTo,
		confidence: 0.8,
		reasoning:  "Query matches how-to pattern (how do I/example/tutorial)",
		patterns: compileInsensitive(
			`how\s+(?:do\s+I|to|can\s+I)\s+(use|configure|setup|create|implement|build|make)`,
			`(?:example|sample|demo)\s+(?:of|for|using)\s+([a-zA-Z0-9_\s]+)`,
			`(?:tutorial|guide)\s+(?:on|for)\s+([a-zA-Z0-9_\s]+)`,
			`steps?\s+to\s+(configure|setup|create|use)\s+([a-zA-Z0-9_\s]+)`,
		),
	},
	{
		queryType:  models.QueryConceptExplain,
		confidence: 0.75,
		reasoning:  "Query matches concept explanation pattern (how does/what is)",
		patterns: compileInsensitive(
			`how\s+(?:does|do|is)\s+([a-z_][a-z0-9_\s]*?)\s+(?:work|function|operate)`,
			`what\s+(?:is|are)\s+([a-z_][a-z0-9_\s]*?)(?:\?|$)`,
			`explain\s+([a-z_][a-z0-9_\s]*)`,
			`(?:understand|learn)\s+(?:about\s+)?([a-z_][a-z0-9_\s]*)`,
		),
	},
}

// Symbol extraction stays case sensitive so capitalization keeps meaning.
var symbolPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-Z][a-zA-Z0-9]*(?:\.[a-z_][a-zA-Z0-9_]*)*)\b`),
	regexp.MustCompile("`([^`]+)`"),
	regexp.MustCompile(`@([a-z_][a-z0-9_]*)`),
}

// capitalizedSymbolRe strips symbols out of a query before concept
// matching, so a class name never doubles as a concept hit.
var capitalizedSymbolRe = regexp.MustCompile(`\b[A-Z][a-zA-Z0-9]*(?:\.[a-z_][a-zA-Z0-9_]*)*\b`)

// symbolStopwords are capitalized common words that look like symbols.
var symbolStopwords = map[string]bool{
	"I": true, "A": true, "In": true, "On": true,
	"To": true, "For": true, "The": true, "With": true,
}

// conceptKeywords is the fixed domain vocabulary, matched by substring
// in declaration order.
var conceptKeywords = []string{
	"schedule", "schedules", "scheduling",
	"sensor", "sensors",
	"asset", "assets",
	"partition", "partitions", "partitioning",
	"job", "jobs",
	"op", "ops", "operation", "operations",
	"graph", "graphs",
	"resource", "resources",
	"config", "configuration",
	"pipeline", "pipelines",
	"dag", "dags",
	"table", "tables",
	"schema", "schemas",
	"reconciliation",
	"automation",
	"materialization",
	"backfill",
}

// knownLibraries is matched case-insensitively by substring, in order.
var knownLibraries = []string{
	"dagster", "pyiceberg", "iceberg", "pandas", "numpy",
	"polars", "duckdb", "prefect", "airflow",
}

// KnownLibraries returns the recognized library names in matching order.
func KnownLibraries() []string {
	out := make([]string, len(knownLibraries))
	copy(out, knownLibraries)
	return out
}

// QueryClassifier assigns an intent to free-text questions.
type QueryClassifier struct{}

// NewQueryClassifier creates a classifier.
func NewQueryClassifier() *QueryClassifier {
	return &QueryClassifier{}
}

// Classify matches the question against each intent's pattern group in
// precedence order and returns the first hit with its fixed confidence.
// When no group matches, extracted symbols degrade the query to a
// low-confidence symbol lookup, concepts to a concept explanation, and
// otherwise the target is unknown.
func (c *QueryClassifier) Classify(query string) models.QueryClassification {
	symbols := extractSymbols(query)
	concepts := extractConcepts(query)
	libraries := extractLibraries(query)

	base := models.QueryClassification{
		Symbols:   symbols,
		Concepts:  concepts,
		Libraries: libraries,
	}

	for _, rule := range intentRules {
		if matchesAny(query, rule.patterns) {
			base.Type = rule.queryType
			base.Confidence = rule.confidence
			base.Reasoning = rule.reasoning
			return base
		}
	}

	if len(symbols) > 0 {
		base.Type = models.QueryExactSymbol
		base.Confidence = 0.5
		base.Reasoning = "No clear pattern match, but symbols detected - treating as symbol lookup"
		return base
	}

	if len(concepts) > 0 {
		base.Type = models.QueryConceptExplain
		base.Confidence = 0.5
		base.Reasoning = "No clear pattern match, but concepts detected - treating as concept explanation"
		return base
	}

	base.Type = models.QueryUnknownTarget
	base.Confidence = 0.3
	base.Reasoning = "Unable to classify query type - will use broad search"
	return base
}

func matchesAny(query string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(query) {
			return true
		}
	}
	return false
}

// extractSymbols pulls code identifiers from the query: capitalized
// dotted names, back-ticked spans, and decorator forms. Results are
// deduplicated, filtered against the stopword set, and sorted.
func extractSymbols(query string) []string {
	seen := make(map[string]bool)
	for _, p := range symbolPatterns {
		for _, m := range p.FindAllStringSubmatch(query, -1) {
			seen[m[1]] = true
		}
	}

	symbols := make([]string, 0, len(seen))
	for s := range seen {
		if !symbolStopwords[s] {
			symbols = append(symbols, s)
		}
	}
	sort.Strings(symbols)
	if len(symbols) == 0 {
		return nil
	}
	return symbols
}

// extractConcepts matches the domain vocabulary against the query after
// symbols are removed.
func extractConcepts(query string) []string {
	stripped := capitalizedSymbolRe.ReplaceAllString(query, "")
	lower := strings.ToLower(stripped)

	var found []string
	for _, keyword := range conceptKeywords {
		if strings.Contains(lower, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}

// extractLibraries finds known library names mentioned in the query.
func extractLibraries(query string) []string {
	lower := strings.ToLower(query)

	var found []string
	for _, lib := range knownLibraries {
		if strings.Contains(lower, lib) {
			found = append(found, lib)
		}
	}
	return found
}
