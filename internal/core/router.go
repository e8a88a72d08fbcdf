// ABOUTME: RetrievalRouter turns a classification into an ordered retrieval plan
// ABOUTME: Each intent has a fixed policy for steps, detail mode, and confidence floor
package core

import (
	"fmt"

	"github.com/quarry-labs/quarry/internal/models"
)

// DefaultTopK is the default documentation search result count.
const DefaultTopK = 5

// RetrievalRouter maps query classifications onto retrieval strategies.
type RetrievalRouter struct {
	defaultTopK int
	defaultRepo string
}

// NewRetrievalRouter creates a router. defaultRepo narrows code lookups
// when the query carries no library hint; empty means search all repos.
func NewRetrievalRouter(defaultTopK int, defaultRepo string) *RetrievalRouter {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &RetrievalRouter{defaultTopK: defaultTopK, defaultRepo: defaultRepo}
}

// Route builds the retrieval strategy for one classified question.
// expandDetail widens the initial detail mode when the caller explicitly
// asked for full code.
func (r *RetrievalRouter) Route(question string, c models.QueryClassification, expandDetail bool) models.RetrievalStrategy {
	switch c.Type {
	case models.QueryExactSymbol:
		return r.routeExactSymbol(question, c, expandDetail)
	case models.QuerySymbolBrowse:
		return r.routeSymbolBrowse(question, c, expandDetail)
	case models.QueryConceptExplain:
		return r.routeConceptExplain(question, c)
	case models.QueryHowTo:
		return r.routeHowTo(question, c)
	case models.QueryDebugBehavior:
		return r.routeDebugBehavior(question, c, expandDetail)
	case models.QueryComparison:
		return r.routeComparison(question, c)
	default:
		return r.routeUnknown(question, c)
	}
}

func (r *RetrievalRouter) routeExactSymbol(question string, c models.QueryClassification, expandDetail bool) models.RetrievalStrategy {
	primary := c.PrimarySymbol()
	if primary == "" {
		// Nothing to look up; fall back to a broad search.
		return r.routeUnknown(question, c)
	}

	mode := models.DetailSignature
	if expandDetail {
		mode = models.DetailFull
	}

	steps := []models.RetrievalStep{
		{
			Tool: models.ToolCodeIndex,
			Params: models.CodeIndexParams{
				Name:  primary,
				Match: models.MatchExact,
				Repo:  r.repoHint(c),
				Limit: 5,
			},
			Reasoning: fmt.Sprintf("Look up exact symbol '%s' in code index", primary),
			Fallback: &models.RetrievalStep{
				Tool: models.ToolCodeIndex,
				Params: models.CodeIndexParams{
					Name:  primary,
					Match: models.MatchContains,
					Repo:  r.repoHint(c),
					Limit: 10,
				},
				Reasoning: fmt.Sprintf("Exact match failed, try fuzzy search for '%s'", primary),
			},
		},
		{
			Tool: models.ToolCodeGet,
			Params: models.CodeGetParams{
				Name: primary,
				Mode: mode,
				Repo: r.repoHint(c),
			},
			Reasoning: fmt.Sprintf("Retrieve %s for '%s'", mode, primary),
		},
	}

	return models.RetrievalStrategy{
		Steps:           steps,
		InitialDetail:   mode,
		ExpandOnRequest: true,
		ConfidenceFloor: 0.5,
		Reasoning:       fmt.Sprintf("Direct code lookup for symbol '%s'", primary),
	}
}

func (r *RetrievalRouter) routeSymbolBrowse(question string, c models.QueryClassification, expandDetail bool) models.RetrievalStrategy {
	primary := c.PrimarySymbol()
	if primary == "" {
		return r.routeUnknown(question, c)
	}

	mode := models.DetailMethodsList
	if expandDetail {
		mode = models.DetailOutline
	}

	steps := []models.RetrievalStep{
		{
			Tool: models.ToolCodeIndex,
			Params: models.CodeIndexParams{
				Name:  primary,
				Match: models.MatchExact,
				Repo:  r.repoHint(c),
				Limit: 5,
			},
			Reasoning: fmt.Sprintf("Find '%s' in code index", primary),
		},
		{
			Tool: models.ToolCodeGet,
			Params: models.CodeGetParams{
				Name: primary,
				Mode: mode,
				Repo: r.repoHint(c),
			},
			Reasoning: fmt.Sprintf("Get %s to browse available methods", mode),
		},
	}

	return models.RetrievalStrategy{
		Steps:           steps,
		InitialDetail:   mode,
		ExpandOnRequest: true,
		ConfidenceFloor: 0.5,
		Reasoning:       fmt.Sprintf("Browse API of '%s'", primary),
	}
}

func (r *RetrievalRouter) routeConceptExplain(question string, c models.QueryClassification) models.RetrievalStrategy {
	steps := []models.RetrievalStep{
		{
			Tool: models.ToolDocSearch,
			Params: models.DocSearchParams{
				Question: question,
				TopK:     r.defaultTopK,
				Tags:     c.Libraries,
			},
			Reasoning: "Search documentation for concept explanation",
		},
	}

	for _, symbol := range firstN(c.Symbols, 2) {
		steps = append(steps, models.RetrievalStep{
			Tool: models.ToolCodeGet,
			Params: models.CodeGetParams{
				Name: symbol,
				Mode: models.DetailSignature,
				Repo: r.repoHint(c),
			},
			Reasoning: fmt.Sprintf("Get signature for mentioned symbol '%s'", symbol),
		})
	}

	return models.RetrievalStrategy{
		Steps:           steps,
		InitialDetail:   models.DetailSignature,
		ExpandOnRequest: false,
		ConfidenceFloor: 0.3,
		Reasoning:       "Explain concept using docs + code examples",
	}
}

func (r *RetrievalRouter) routeHowTo(question string, c models.QueryClassification) models.RetrievalStrategy {
	steps := []models.RetrievalStep{
		{
			Tool: models.ToolDocSearchEnhanced,
			Params: models.EnhancedSearchParams{
				Question:     question,
				TopK:         r.defaultTopK,
				MaxFollowups: 2,
				Tags:         c.Libraries,
			},
			Reasoning: "Use enhanced RAG to get how-to docs + code examples",
		},
	}

	return models.RetrievalStrategy{
		Steps:           steps,
		InitialDetail:   models.DetailSignature,
		ExpandOnRequest: true,
		ConfidenceFloor: 0.3,
		Reasoning:       "How-to guide with automatic code retrieval",
	}
}

func (r *RetrievalRouter) routeDebugBehavior(question string, c models.QueryClassification, expandDetail bool) models.RetrievalStrategy {
	mode := models.DetailSignature
	if expandDetail {
		mode = models.DetailFull
	}

	var steps []models.RetrievalStep
	for _, symbol := range firstN(c.Symbols, 2) {
		steps = append(steps,
			models.RetrievalStep{
				Tool: models.ToolCodeIndex,
				Params: models.CodeIndexParams{
					Name:  symbol,
					Match: models.MatchExact,
					Repo:  r.repoHint(c),
				},
				Reasoning: fmt.Sprintf("Find '%s' to check implementation", symbol),
			},
			models.RetrievalStep{
				Tool: models.ToolCodeGet,
				Params: models.CodeGetParams{
					Name: symbol,
					Mode: mode,
					Repo: r.repoHint(c),
				},
				Reasoning: fmt.Sprintf("Get %s to understand behavior", mode),
			},
		)
	}

	steps = append(steps, models.RetrievalStep{
		Tool: models.ToolDocSearch,
		Params: models.DocSearchParams{
			Question: question,
			TopK:     r.defaultTopK,
			Tags:     c.Libraries,
		},
		Reasoning: "Search docs for troubleshooting info",
	})

	return models.RetrievalStrategy{
		Steps:           steps,
		InitialDetail:   mode,
		ExpandOnRequest: true,
		ConfidenceFloor: 0.4,
		Reasoning:       "Debug by examining code + docs",
	}
}

func (r *RetrievalRouter) routeComparison(question string, c models.QueryClassification) models.RetrievalStrategy {
	steps := []models.RetrievalStep{
		{
			Tool: models.ToolDocSearch,
			Params: models.DocSearchParams{
				Question: question,
				TopK:     r.defaultTopK * 2,
				Tags:     c.Libraries,
			},
			Reasoning: "Search docs for both items being compared",
		},
	}

	for _, symbol := range firstN(c.Symbols, 2) {
		steps = append(steps, models.RetrievalStep{
			Tool: models.ToolCodeGet,
			Params: models.CodeGetParams{
				Name: symbol,
				Mode: models.DetailSignature,
				Repo: r.repoHint(c),
			},
			Reasoning: fmt.Sprintf("Get signature for '%s' to compare", symbol),
		})
	}

	return models.RetrievalStrategy{
		Steps:           steps,
		InitialDetail:   models.DetailSignature,
		ExpandOnRequest: false,
		ConfidenceFloor: 0.3,
		Reasoning:       "Compare using docs + signatures",
	}
}

func (r *RetrievalRouter) routeUnknown(question string, c models.QueryClassification) models.RetrievalStrategy {
	steps := []models.RetrievalStep{
		{
			Tool: models.ToolDocSearch,
			Params: models.DocSearchParams{
				Question: question,
				TopK:     r.defaultTopK,
			},
			Reasoning: "Broad search to identify query target",
		},
	}

	return models.RetrievalStrategy{
		Steps:           steps,
		InitialDetail:   models.DetailSignature,
		ExpandOnRequest: true,
		ConfidenceFloor: 0.2,
		Reasoning:       "Unknown query type - using broad search",
	}
}

// repoHint resolves which repository code lookups should target: the
// first library mentioned in the query, else the router default.
func (r *RetrievalRouter) repoHint(c models.QueryClassification) string {
	if len(c.Libraries) > 0 {
		return c.Libraries[0]
	}
	return r.defaultRepo
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
