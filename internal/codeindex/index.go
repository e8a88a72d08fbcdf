// ABOUTME: Index is the lookup facade over the symbol store and source files
// ABOUTME: Search finds candidate symbols, Get renders one at a detail mode
package codeindex

import (
	"fmt"

	"github.com/quarry-labs/quarry/internal/models"
	"github.com/quarry-labs/quarry/internal/storage/sqlite"
)

// Index resolves code lookups against indexed symbols.
type Index struct {
	store *sqlite.SymbolStore
}

// New creates an index backed by the given symbol store.
func New(store *sqlite.SymbolStore) *Index {
	return &Index{store: store}
}

// IndexRepo walks a source tree and upserts its symbols under the repo
// name. When replace is set, previously indexed symbols for the repo are
// cleared first. Returns the number of symbols indexed.
func (ix *Index) IndexRepo(root, repo string, replace bool) (int, error) {
	if replace {
		if _, err := ix.store.DeleteRepo(repo); err != nil {
			return 0, err
		}
	}

	symbols, err := NewIndexer(repo).IndexDir(root)
	if err != nil {
		return 0, err
	}
	if err := ix.store.SaveSymbols(symbols); err != nil {
		return 0, fmt.Errorf("failed to store symbols for %s: %w", repo, err)
	}
	return len(symbols), nil
}

// Search finds symbols by simple or dotted name under a match mode.
// An empty repo searches every indexed repo.
func (ix *Index) Search(name string, match models.MatchMode, repo string, limit int) ([]models.SymbolRecord, error) {
	return ix.store.Search(name, match, repo, limit)
}

// Get resolves a name to its best symbol and renders it at the requested
// detail mode. Returns nil when the name is not indexed.
func (ix *Index) Get(name string, mode models.DetailMode, repo string) (*models.CodeSnippet, error) {
	sym, err := ix.store.Get(name, repo)
	if err != nil {
		return nil, err
	}
	if sym == nil {
		return nil, nil
	}

	var methods []models.SymbolRecord
	if sym.Kind == models.SymbolType && (mode == models.DetailMethodsList || mode == models.DetailOutline) {
		methods, err = ix.store.MethodsOf(sym.Name, sym.Repo)
		if err != nil {
			return nil, err
		}
	}
	return renderSnippet(*sym, mode, methods)
}

// Repos returns the indexed repo names with their symbol counts.
func (ix *Index) Repos() (map[string]int, error) {
	return ix.store.ListRepos()
}

// Count returns the total number of indexed symbols.
func (ix *Index) Count() (int, error) {
	return ix.store.CountSymbols()
}

// DeleteRepo removes all symbols indexed under the repo name and reports
// how many were dropped.
func (ix *Index) DeleteRepo(repo string) (int64, error) {
	return ix.store.DeleteRepo(repo)
}
