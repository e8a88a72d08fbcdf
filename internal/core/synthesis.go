// ABOUTME: Answer synthesis from mixed retrieval result shapes
// ABOUTME: Per-intent formatters build markdown and collect grounding as they go
package core

import (
	"fmt"
	"strings"

	"github.com/quarry-labs/quarry/internal/models"
)

// synthesize builds the final answer text, an aggregate confidence, and
// the grounding bundle for everything the formatters actually used.
// Confidence is a fixed lookup keyed by intent, not a learned signal.
func synthesize(c models.QueryClassification, results []stepResult) (string, float64, models.Grounding) {
	grounding := models.Grounding{Sources: []models.SourceRef{}, Code: []models.CodeRef{}}

	if len(results) == 0 {
		answer := fmt.Sprintf(
			"I couldn't find relevant information to answer your question. Query type: %s. Try rephrasing or being more specific.",
			c.Type,
		)
		return answer, 0.1, grounding
	}

	var answer string
	var score float64

	switch c.Type {
	case models.QueryExactSymbol:
		answer = formatCodeAnswer(results, &grounding)
		score = 0.9
	case models.QuerySymbolBrowse:
		answer = formatCodeAnswer(results, &grounding)
		score = 0.8
	case models.QueryConceptExplain, models.QueryHowTo:
		answer = formatConceptAnswer(results, &grounding)
		score = 0.7
	case models.QueryDebugBehavior:
		answer = formatDebugAnswer(results, &grounding)
		score = 0.7
	case models.QueryComparison:
		answer = formatConceptAnswer(results, &grounding)
		score = 0.6
	default:
		answer = formatConceptAnswer(results, &grounding)
		score = 0.4
	}

	return answer, score, grounding
}

// formatCodeAnswer renders symbol lookups: retrieved code bodies with
// their locations, and top index matches when only a listing came back.
func formatCodeAnswer(results []stepResult, grounding *models.Grounding) string {
	var parts []string

	for _, r := range results {
		switch {
		case r.snippet != nil:
			s := r.snippet
			parts = append(parts, fmt.Sprintf("**%s** (%s)", s.Name, s.Kind))
			parts = append(parts, fmt.Sprintf("Location: `%s:%d`", s.FilePath, s.StartLine))
			parts = append(parts, "\n"+codeFence(s))
			grounding.Code = append(grounding.Code, codeRefOf(s))

		case len(r.symbols) > 0:
			top := r.symbols
			if len(top) > 3 {
				top = top[:3]
			}
			for _, sym := range top {
				name := sym.QualifiedName
				if name == "" {
					name = sym.Name
				}
				parts = append(parts, fmt.Sprintf("- `%s` at %s:%d", name, sym.FilePath, sym.Line))
				grounding.Code = append(grounding.Code, models.CodeRef{
					Name:     name,
					FilePath: sym.FilePath,
					Line:     sym.Line,
					Kind:     sym.Kind,
				})
			}
		}
	}

	return strings.Join(parts, "\n")
}

// formatConceptAnswer renders documentation answers with optional code
// examples for concept, how-to, comparison, and unknown queries.
func formatConceptAnswer(results []stepResult, grounding *models.Grounding) string {
	var parts []string

	for _, r := range results {
		if doc := r.docAnswer(); doc != nil && doc.Answer != "" {
			parts = append(parts, "## Explanation")
			parts = append(parts, doc.Answer)
			grounding.Sources = append(grounding.Sources, doc.Sources...)
		}

		if r.snippet != nil {
			parts = append(parts, "\n## Code Example")
			parts = append(parts, codeFence(r.snippet))
			grounding.Code = append(grounding.Code, codeRefOf(r.snippet))
		}
	}

	return strings.Join(parts, "\n\n")
}

// formatDebugAnswer renders implementations first, then any
// documentation context found for the misbehavior.
func formatDebugAnswer(results []stepResult, grounding *models.Grounding) string {
	parts := []string{"## Implementation"}

	for _, r := range results {
		if r.snippet != nil {
			parts = append(parts, fmt.Sprintf("\n**%s**:", r.snippet.Name))
			parts = append(parts, codeFence(r.snippet))
			grounding.Code = append(grounding.Code, codeRefOf(r.snippet))
		}

		if doc := r.docAnswer(); doc != nil && doc.Answer != "" {
			parts = append(parts, "\n## Documentation")
			parts = append(parts, doc.Answer)
			grounding.Sources = append(grounding.Sources, doc.Sources...)
		}
	}

	return strings.Join(parts, "\n")
}

func codeFence(s *models.CodeSnippet) string {
	return fmt.Sprintf("```%s\n%s\n```", s.Language, s.Code)
}

func codeRefOf(s *models.CodeSnippet) models.CodeRef {
	return models.CodeRef{
		Name:     s.Name,
		FilePath: s.FilePath,
		Line:     s.StartLine,
		Kind:     s.Kind,
	}
}
