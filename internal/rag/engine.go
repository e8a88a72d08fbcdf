// ABOUTME: Engine owns document ingestion and retrieval-augmented answering
// ABOUTME: Chunks are embedded through the rate gate and searched by cosine similarity
package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quarry-labs/quarry/internal/codeindex"
	"github.com/quarry-labs/quarry/internal/core"
	"github.com/quarry-labs/quarry/internal/models"
	"github.com/quarry-labs/quarry/internal/storage/sqlite"
)

const (
	// DefaultMaxFollowups bounds reference chasing in enhanced queries.
	DefaultMaxFollowups = 3
	// followupTopK keeps follow-up queries cheaper than the main one.
	followupTopK = 3

	noRelevantInfo = "I don't have any relevant information to answer this question."
)

const answerPromptTemplate = `You are a helpful assistant that answers questions based on the provided context.

Context:
%s

Question: %s

Please provide a clear and concise answer based on the context above. If the context doesn't contain enough information to answer the question, say so.`

// Embedder produces embedding vectors for texts.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Generator produces completions for prompts.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EngineConfig tunes chunking and retrieval defaults. Zero values fall
// back to the package defaults.
type EngineConfig struct {
	ChunkSize    int
	ChunkOverlap int
	DefaultTopK  int
}

// Engine is the documentation pipeline: ingestion, similarity search,
// prompt assembly, and reference-following enhanced queries.
type Engine struct {
	chunks    *sqlite.ChunkStore
	index     *codeindex.Index
	embedder  Embedder
	generator Generator
	chunker   *core.HierarchicalChunker
	extractor *ReferenceExtractor
	topK      int
}

// NewEngine wires an engine. index may be nil when no code index is
// available; enhanced queries then skip snippet resolution.
func NewEngine(chunks *sqlite.ChunkStore, index *codeindex.Index, embedder Embedder, generator Generator, cfg EngineConfig) *Engine {
	topK := cfg.DefaultTopK
	if topK <= 0 {
		topK = core.DefaultTopK
	}
	return &Engine{
		chunks:    chunks,
		index:     index,
		embedder:  embedder,
		generator: generator,
		chunker:   core.NewHierarchicalChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		extractor: NewReferenceExtractor(core.KnownLibraries()),
		topK:      topK,
	}
}

// AddResult describes one ingested document.
type AddResult struct {
	DocID     string   `json:"doc_id"`
	Filename  string   `json:"filename"`
	FileType  string   `json:"file_type"`
	Tags      []string `json:"tags"`
	NumChunks int      `json:"num_chunks"`
}

// AddDocument reads a file, chunks it, embeds the chunks, and stores
// them. basePath, when non-empty, roots the filesystem-derived section
// path prefix. Re-adding a document replaces its previous chunks.
func (e *Engine) AddDocument(ctx context.Context, path string, tags []string, basePath string) (*AddResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	var prefix []string
	if basePath != "" {
		if rel, relErr := filepath.Rel(basePath, path); relErr == nil && !strings.HasPrefix(rel, "..") {
			prefix = core.PathPrefixOf(rel)
		}
	}
	return e.AddContent(ctx, filepath.Base(path), string(data), tags, prefix)
}

// AddContent ingests pre-loaded content under the given filename.
func (e *Engine) AddContent(ctx context.Context, filename, content string, tags []string, pathPrefix []string) (*AddResult, error) {
	if !core.IsSupportedFile(filename) {
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	docID := core.DocID(filename, content)
	fileType := core.FileTypeOf(filename)
	chunks := e.chunker.Chunk(core.ChunkRequest{
		Content:    content,
		DocID:      docID,
		Filename:   filename,
		FileType:   fileType,
		Tags:       tags,
		PathPrefix: pathPrefix,
		Markdown:   core.IsMarkdownFile(filename),
	})

	result := &AddResult{
		DocID:     docID,
		Filename:  filename,
		FileType:  fileType,
		Tags:      tags,
		NumChunks: len(chunks),
	}
	if len(chunks) == 0 {
		return result, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(chunks))
	}

	// Replace any previous version of the same document.
	if _, err := e.chunks.DeleteDocument(docID); err != nil {
		return nil, err
	}
	for i, chunk := range chunks {
		if _, err := e.chunks.SaveChunk(chunk, vectors[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Query answers a question from stored documents. Retrieved chunks are
// labeled with their section paths in the prompt so the model can cite
// where information came from.
func (e *Engine) Query(ctx context.Context, question string, topK int, tags []string, sectionPath string) (*models.DocAnswer, error) {
	if topK <= 0 {
		topK = e.topK
	}

	queryVector, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := e.chunks.SearchSimilar(queryVector, topK, sqlite.ChunkFilter{
		Tags:        tags,
		SectionPath: sectionPath,
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &models.DocAnswer{
			Answer:      noRelevantInfo,
			Sources:     []models.SourceRef{},
			ContextUsed: []string{},
		}, nil
	}

	contextParts := make([]string, len(results))
	contextUsed := make([]string, len(results))
	sources := make([]models.SourceRef, len(results))
	for i, r := range results {
		section := r.SectionPath
		if section == "" {
			section = core.RootSectionTitle
		}
		filename := r.Filename
		if filename == "" {
			filename = "unknown"
		}
		contextParts[i] = fmt.Sprintf("[%s]\n%s", section, r.Text)
		contextUsed[i] = r.Text
		sources[i] = models.SourceRef{
			SectionPath: section,
			Filename:    filename,
			ChunkIndex:  r.ChunkIndex,
			Score:       r.Score,
		}
	}

	prompt := fmt.Sprintf(answerPromptTemplate, strings.Join(contextParts, "\n\n"), question)
	answer, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	return &models.DocAnswer{
		Answer:      answer,
		Sources:     sources,
		ContextUsed: contextUsed,
	}, nil
}

// QueryEnhanced runs Query, chases code references mentioned in the
// answer and its context, and regenerates the answer once with any
// resolved code snippets added to the context. Follow-up failures are
// absorbed into the thinking log rather than failing the whole query.
func (e *Engine) QueryEnhanced(ctx context.Context, question string, topK, maxFollowups int, tags []string) (*models.EnhancedAnswer, error) {
	if maxFollowups <= 0 {
		maxFollowups = DefaultMaxFollowups
	}

	thinking := []string{fmt.Sprintf("[1] Executing initial query: '%s'", question)}
	initial, err := e.Query(ctx, question, topK, tags, "")
	if err != nil {
		return nil, err
	}
	enhanced := &models.EnhancedAnswer{DocAnswer: *initial}

	thinking = append(thinking, "[2] Analyzing answer for code object references...")
	allText := initial.Answer + "\n\n" + strings.Join(initial.ContextUsed, "\n\n")
	refs := e.extractor.Extract(allText)
	priority := e.extractor.Prioritize(refs, maxFollowups)

	if len(priority) == 0 {
		thinking = append(thinking, "[3] No significant code references found to follow up on")
	} else {
		thinking = append(thinking, fmt.Sprintf(
			"[3] Found %d references. Following up on top %d: %s",
			refs.Total(), len(priority), strings.Join(priority, ", "),
		))

		for i, ref := range priority {
			refQuery := e.extractor.FormatQuery(ref)
			thinking = append(thinking, fmt.Sprintf("[3.%d] Querying for reference: '%s' -> '%s'", i+1, ref, refQuery))

			refResult, err := e.Query(ctx, refQuery, followupTopK, tags, "")
			if err != nil {
				thinking = append(thinking, fmt.Sprintf("[3.%d.a] Follow-up query failed: %v", i+1, err))
				continue
			}
			enhanced.FollowedRefs = append(enhanced.FollowedRefs, models.FollowedRef{
				Reference: ref,
				Query:     refQuery,
				Answer:    refResult.Answer,
				Sources:   refResult.Sources,
			})

			if e.index == nil {
				continue
			}
			snippet, err := e.index.Get(e.extractor.LookupName(ref), models.DetailSignature, "")
			switch {
			case err != nil:
				thinking = append(thinking, fmt.Sprintf("[3.%d.a] Code lookup failed for '%s': %v", i+1, ref, err))
			case snippet != nil:
				enhanced.Snippets = append(enhanced.Snippets, *snippet)
				thinking = append(thinking, fmt.Sprintf("[3.%d.a] Resolved '%s' in the code index", i+1, ref))
			default:
				thinking = append(thinking, fmt.Sprintf("[3.%d.a] '%s' is not in the code index", i+1, ref))
			}
		}
	}

	if len(enhanced.Snippets) > 0 {
		thinking = append(thinking, fmt.Sprintf("[4] Regenerating answer with %d code snippet(s) in context", len(enhanced.Snippets)))
		if regenerated, err := e.regenerate(ctx, question, initial, enhanced.Snippets); err != nil {
			thinking = append(thinking, fmt.Sprintf("[4.a] Regeneration failed: %v; keeping initial answer", err))
		} else {
			enhanced.Answer = regenerated
		}
	} else {
		thinking = append(thinking, "[4] No code snippets resolved; keeping initial answer")
	}

	thinking = append(thinking, fmt.Sprintf(
		"[5] Complete! Followed %d references, retrieved %d code snippets",
		len(enhanced.FollowedRefs), len(enhanced.Snippets),
	))
	enhanced.Thinking = thinking
	return enhanced, nil
}

// regenerate rebuilds the prompt with the original context blocks plus
// resolved code snippets and asks for one more completion.
func (e *Engine) regenerate(ctx context.Context, question string, initial *models.DocAnswer, snippets []models.CodeSnippet) (string, error) {
	var contextParts []string
	for i, text := range initial.ContextUsed {
		section := core.RootSectionTitle
		if i < len(initial.Sources) {
			section = initial.Sources[i].SectionPath
		}
		contextParts = append(contextParts, fmt.Sprintf("[%s]\n%s", section, text))
	}
	for _, s := range snippets {
		contextParts = append(contextParts, fmt.Sprintf("[Code: %s]\n%s", s.Name, s.Code))
	}

	prompt := fmt.Sprintf(answerPromptTemplate, strings.Join(contextParts, "\n\n"), question)
	return e.generator.Generate(ctx, prompt)
}

// DeleteDocument removes a document's chunks and reports how many.
func (e *Engine) DeleteDocument(docID string) (int64, error) {
	return e.chunks.DeleteDocument(docID)
}

// ListDocuments returns stored documents, optionally narrowed to those
// carrying at least one of the given tags.
func (e *Engine) ListDocuments(tags []string) ([]models.DocumentInfo, error) {
	docs, err := e.chunks.ListDocuments()
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return docs, nil
	}

	var filtered []models.DocumentInfo
	for _, doc := range docs {
		if anyTagMatch(doc.Tags, tags) {
			filtered = append(filtered, doc)
		}
	}
	return filtered, nil
}

func anyTagMatch(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// Stats summarizes the stored corpus.
type Stats struct {
	TotalDocuments int `json:"total_documents"`
	TotalChunks    int `json:"total_chunks"`
}

// Stats reports corpus totals.
func (e *Engine) Stats() (*Stats, error) {
	docs, err := e.chunks.CountDocuments()
	if err != nil {
		return nil, err
	}
	chunks, err := e.chunks.CountChunks()
	if err != nil {
		return nil, err
	}
	return &Stats{TotalDocuments: docs, TotalChunks: chunks}, nil
}

// Tags returns every distinct tag across stored documents.
func (e *Engine) Tags() ([]string, error) {
	return e.chunks.AllTags()
}

// DocumentSections returns a document's section structure ordered by
// level, then path.
func (e *Engine) DocumentSections(docID string) ([]models.SectionInfo, error) {
	sections, err := e.chunks.ListSections(docID)
	if err != nil {
		return nil, err
	}
	sort.Slice(sections, func(i, j int) bool {
		if sections[i].SectionLevel != sections[j].SectionLevel {
			return sections[i].SectionLevel < sections[j].SectionLevel
		}
		return sections[i].SectionPath < sections[j].SectionPath
	})
	return sections, nil
}
