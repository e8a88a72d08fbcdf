// ABOUTME: Toolset adapts the engine and code index to the orchestrator's tools
// ABOUTME: A nil code index degrades code lookups to empty results, not errors
package rag

import (
	"context"

	"github.com/quarry-labs/quarry/internal/codeindex"
	"github.com/quarry-labs/quarry/internal/core"
	"github.com/quarry-labs/quarry/internal/models"
)

// Toolset exposes documentation search and code lookup as the four
// retrieval tools the orchestrator drives.
type Toolset struct {
	engine *Engine
	index  *codeindex.Index
}

var _ core.Retriever = (*Toolset)(nil)

// NewToolset wires the retrieval tools. index may be nil.
func NewToolset(engine *Engine, index *codeindex.Index) *Toolset {
	return &Toolset{engine: engine, index: index}
}

func (t *Toolset) SearchCode(_ context.Context, p models.CodeIndexParams) ([]models.SymbolRecord, error) {
	if t.index == nil {
		return nil, nil
	}
	return t.index.Search(p.Name, p.Match, p.Repo, p.Limit)
}

func (t *Toolset) GetCode(_ context.Context, p models.CodeGetParams) (*models.CodeSnippet, error) {
	if t.index == nil {
		return nil, nil
	}
	return t.index.Get(p.Name, p.Mode, p.Repo)
}

func (t *Toolset) SearchDocs(ctx context.Context, p models.DocSearchParams) (*models.DocAnswer, error) {
	return t.engine.Query(ctx, p.Question, p.TopK, p.Tags, "")
}

func (t *Toolset) SearchDocsEnhanced(ctx context.Context, p models.EnhancedSearchParams) (*models.EnhancedAnswer, error) {
	return t.engine.QueryEnhanced(ctx, p.Question, p.TopK, p.MaxFollowups, p.Tags)
}
