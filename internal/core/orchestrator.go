// ABOUTME: Orchestrator runs a retrieval strategy end to end with a full trace
// ABOUTME: Tool failures are absorbed into the trace, never propagated to the caller
package core

import (
	"context"
	"fmt"

	"github.com/quarry-labs/quarry/internal/models"
)

// Retriever is the closed set of tools a retrieval strategy can invoke.
type Retriever interface {
	SearchCode(ctx context.Context, p models.CodeIndexParams) ([]models.SymbolRecord, error)
	GetCode(ctx context.Context, p models.CodeGetParams) (*models.CodeSnippet, error)
	SearchDocs(ctx context.Context, p models.DocSearchParams) (*models.DocAnswer, error)
	SearchDocsEnhanced(ctx context.Context, p models.EnhancedSearchParams) (*models.EnhancedAnswer, error)
}

// QueryOptions tunes one orchestrated query.
type QueryOptions struct {
	// ExpandDetail asks for full code bodies instead of signatures.
	ExpandDetail bool
	// RepoFilter overrides the repository hint on every step that has one.
	RepoFilter string
}

// Orchestrator classifies a question, routes it to a strategy, executes
// the strategy's steps with fallbacks, and synthesizes one answer.
type Orchestrator struct {
	retriever  Retriever
	classifier *QueryClassifier
	router     *RetrievalRouter
}

// NewOrchestrator wires an orchestrator to its retrieval tools.
func NewOrchestrator(retriever Retriever, router *RetrievalRouter) *Orchestrator {
	if router == nil {
		router = NewRetrievalRouter(DefaultTopK, "")
	}
	return &Orchestrator{
		retriever:  retriever,
		classifier: NewQueryClassifier(),
		router:     router,
	}
}

// Execute answers one question. It always returns a result: every tool
// failure is recorded on the trace and treated as an empty result, and
// when nothing usable comes back the answer is a low-confidence notice.
func (o *Orchestrator) Execute(ctx context.Context, query string, opts QueryOptions) *models.QueryResult {
	classification := o.classifier.Classify(query)
	strategy := o.router.Route(query, classification, opts.ExpandDetail)

	results, trace := o.executeStrategy(ctx, strategy, opts.RepoFilter)
	answer, confidence, grounding := synthesize(classification, results)
	suggestions := suggestionsFor(classification.Type, len(results) > 0)

	return &models.QueryResult{
		Query:          query,
		Answer:         answer,
		Classification: classification,
		Strategy:       strategy,
		ToolCalls:      trace,
		Confidence:     confidence,
		Grounding:      grounding,
		Suggestions:    suggestions,
	}
}

// stepResult holds the single typed payload one tool call produced.
type stepResult struct {
	symbols  []models.SymbolRecord
	snippet  *models.CodeSnippet
	doc      *models.DocAnswer
	enhanced *models.EnhancedAnswer
}

// docAnswer views an enhanced result through its embedded plain answer.
func (r stepResult) docAnswer() *models.DocAnswer {
	if r.enhanced != nil {
		return &r.enhanced.DocAnswer
	}
	return r.doc
}

func (o *Orchestrator) executeStrategy(ctx context.Context, strategy models.RetrievalStrategy, repoFilter string) ([]stepResult, []models.ToolCall) {
	var results []stepResult
	var trace []models.ToolCall

	for _, step := range strategy.Steps {
		params := overrideRepo(step.Params, repoFilter)
		result, call := o.executeTool(ctx, step.Tool, params, step.Reasoning)
		trace = append(trace, call)

		if result == nil && step.Fallback != nil {
			fallback := step.Fallback
			params = overrideRepo(fallback.Params, repoFilter)
			result, call = o.executeTool(ctx, fallback.Tool, params, fallback.Reasoning)
			trace = append(trace, call)
		}

		if result != nil {
			results = append(results, *result)
		}
	}

	return results, trace
}

// executeTool invokes one tool and records the attempt. A nil result
// means the call failed or yielded nothing usable, which lets the caller
// trigger the step's fallback.
func (o *Orchestrator) executeTool(ctx context.Context, tool models.ToolKind, params models.StepParams, reasoning string) (*stepResult, models.ToolCall) {
	call := models.ToolCall{Tool: tool, Params: params, Reasoning: reasoning}

	switch p := params.(type) {
	case models.CodeIndexParams:
		symbols, err := o.retriever.SearchCode(ctx, p)
		if err != nil {
			call.Error = err.Error()
			return nil, call
		}
		call.HasResult = len(symbols) > 0
		call.Success = len(symbols) > 0
		if len(symbols) == 0 {
			return nil, call
		}
		return &stepResult{symbols: symbols}, call

	case models.CodeGetParams:
		snippet, err := o.retriever.GetCode(ctx, p)
		if err != nil {
			call.Error = err.Error()
			return nil, call
		}
		call.HasResult = snippet != nil
		call.Success = snippet != nil
		if snippet == nil {
			return nil, call
		}
		return &stepResult{snippet: snippet}, call

	case models.DocSearchParams:
		doc, err := o.retriever.SearchDocs(ctx, p)
		if err != nil {
			call.Error = err.Error()
			return nil, call
		}
		call.HasResult = doc != nil
		call.Success = doc != nil && doc.Answer != ""
		if !call.Success {
			return nil, call
		}
		return &stepResult{doc: doc}, call

	case models.EnhancedSearchParams:
		enhanced, err := o.retriever.SearchDocsEnhanced(ctx, p)
		if err != nil {
			call.Error = err.Error()
			return nil, call
		}
		call.HasResult = enhanced != nil
		call.Success = enhanced != nil && enhanced.Answer != ""
		if !call.Success {
			return nil, call
		}
		return &stepResult{enhanced: enhanced}, call
	}

	call.Error = fmt.Sprintf("unsupported tool %q", tool)
	return nil, call
}

// overrideRepo copies params with the repository replaced, leaving the
// strategy's own steps untouched.
func overrideRepo(params models.StepParams, repo string) models.StepParams {
	if repo == "" {
		return params
	}
	switch p := params.(type) {
	case models.CodeIndexParams:
		p.Repo = repo
		return p
	case models.CodeGetParams:
		p.Repo = repo
		return p
	}
	return params
}

// suggestionsFor proposes follow-up phrasings keyed off intent and
// whether anything was found.
func suggestionsFor(queryType models.QueryType, hasResults bool) []string {
	if !hasResults {
		return nil
	}
	switch queryType {
	case models.QueryExactSymbol:
		return []string{
			"Ask for 'full implementation' to see complete code",
			"Ask 'what methods does X have' to browse the API",
		}
	case models.QuerySymbolBrowse:
		return []string{"Ask for specific method implementation"}
	case models.QueryConceptExplain:
		return []string{"Ask 'how do I use this' for practical examples"}
	}
	return nil
}
