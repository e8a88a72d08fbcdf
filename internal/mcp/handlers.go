// ABOUTME: MCP tool handler implementations for the Quarry server
// ABOUTME: Formats markdown responses and maps failures, including rate limits, to clear tool errors
package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/quarry-labs/quarry/internal/codeindex"
	"github.com/quarry-labs/quarry/internal/core"
	"github.com/quarry-labs/quarry/internal/models"
	"github.com/quarry-labs/quarry/internal/rag"
	"github.com/quarry-labs/quarry/internal/ratelimit"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	engine       *rag.Engine
	orchestrator *core.Orchestrator
	index        *codeindex.Index
	gate         *ratelimit.Gate
}

// Ask handles the ask tool
func (h *Handlers) Ask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	result := h.orchestrator.Execute(ctx, question, core.QueryOptions{
		ExpandDetail: request.GetBool("expand_detail", false),
		RepoFilter:   request.GetString("repo", ""),
	})

	succeeded := 0
	for _, call := range result.ToolCalls {
		if call.Success {
			succeeded++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", result.Answer)
	fmt.Fprintf(&b, "**Query type:** %s (confidence: %.2f)\n", result.Classification.Type, result.Confidence)
	fmt.Fprintf(&b, "**Strategy:** %s\n", result.Strategy.Reasoning)
	fmt.Fprintf(&b, "**Tool calls:** %d (%d succeeded)\n", len(result.ToolCalls), succeeded)
	if len(result.Grounding.Sources) > 0 {
		fmt.Fprintf(&b, "\n**Sources:**\n%s\n", formatSources(result.Grounding.Sources))
	}
	if len(result.Suggestions) > 0 {
		b.WriteString("\n**Suggestions:**\n")
		for _, s := range result.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

// QueryDocs handles the query_docs tool
func (h *Handlers) QueryDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	topK := request.GetInt("top_k", 5)
	tags := stringArrayArg(request, "tags")
	sectionPath := request.GetString("section_path", "")

	result, err := h.engine.Query(ctx, question, topK, tags, sectionPath)
	if err != nil {
		return toolError("query failed", err), nil
	}

	filters := ""
	if len(tags) > 0 {
		filters += fmt.Sprintf("\n**Filtered by tags:** %s", strings.Join(tags, ", "))
	}
	if sectionPath != "" {
		filters += fmt.Sprintf("\n**Filtered by section:** %s", sectionPath)
	}

	response := fmt.Sprintf("**Answer:**\n%s\n\n**Sources:**\n%s\n\n**Context chunks used:** %d%s\n",
		result.Answer, formatSources(result.Sources), len(result.ContextUsed), filters)
	return mcp.NewToolResultText(response), nil
}

// QueryDocsEnhanced handles the query_docs_enhanced tool
func (h *Handlers) QueryDocsEnhanced(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	topK := request.GetInt("top_k", 5)
	maxFollowups := request.GetInt("max_followups", rag.DefaultMaxFollowups)
	tags := stringArrayArg(request, "tags")

	result, err := h.engine.QueryEnhanced(ctx, question, topK, maxFollowups, tags)
	if err != nil {
		return toolError("enhanced query failed", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Answer:**\n%s\n\n**Sources:**\n%s\n", result.Answer, formatSources(result.Sources))

	if len(result.FollowedRefs) > 0 {
		b.WriteString("\n**Followed references:**\n")
		for _, ref := range result.FollowedRefs {
			fmt.Fprintf(&b, "- `%s` (\"%s\")\n", ref.Reference, ref.Query)
		}
	}
	if len(result.Snippets) > 0 {
		b.WriteString("\n**Code snippets:**\n")
		for _, s := range result.Snippets {
			fmt.Fprintf(&b, "\n`%s` (%s) %s:%d\n", s.Name, s.Kind, s.FilePath, s.StartLine)
			fmt.Fprintf(&b, "```%s\n%s\n```\n", s.Language, s.Code)
		}
	}
	if len(result.Thinking) > 0 {
		fmt.Fprintf(&b, "\n**Thinking:**\n%s\n", strings.Join(result.Thinking, "\n"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

// AddDocument handles the add_document tool
func (h *Handlers) AddDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, err := request.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError("file_path argument is required and must be a string"), nil
	}

	tags := stringArrayArg(request, "tags")
	basePath := request.GetString("base_path", "")

	if _, err := os.Stat(filePath); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("file not found at %s", filePath)), nil
	}

	result, err := h.engine.AddDocument(ctx, filePath, tags, basePath)
	if err != nil {
		return toolError("failed to add document", err), nil
	}

	tagsText := ""
	if len(result.Tags) > 0 {
		tagsText = fmt.Sprintf("\n- Tags: %s", strings.Join(result.Tags, ", "))
	}

	response := fmt.Sprintf("**Document Added Successfully**\n\n- Document ID: %s\n- Filename: %s\n- File Type: %s%s\n- Number of chunks: %d\n",
		result.DocID, result.Filename, result.FileType, tagsText, result.NumChunks)
	return mcp.NewToolResultText(response), nil
}

// ListDocuments handles the list_documents tool
func (h *Handlers) ListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags := stringArrayArg(request, "tags")

	documents, err := h.engine.ListDocuments(tags)
	if err != nil {
		return toolError("failed to list documents", err), nil
	}
	if len(documents) == 0 {
		return mcp.NewToolResultText("No documents found."), nil
	}

	lines := make([]string, 0, len(documents))
	for _, doc := range documents {
		docTags := "none"
		if len(doc.Tags) > 0 {
			docTags = strings.Join(doc.Tags, ", ")
		}
		lines = append(lines, fmt.Sprintf("- %s (ID: %s, Type: %s, Tags: %s)", doc.Filename, doc.DocID, doc.FileType, docTags))
	}

	filterText := ""
	if len(tags) > 0 {
		filterText = fmt.Sprintf(" (filtered by tags: %s)", strings.Join(tags, ", "))
	}

	response := fmt.Sprintf("**Documents (%d total%s):**\n\n%s\n", len(documents), filterText, strings.Join(lines, "\n"))
	return mcp.NewToolResultText(response), nil
}

// DeleteDocument handles the delete_document tool
func (h *Handlers) DeleteDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, err := request.RequireString("doc_id")
	if err != nil {
		return mcp.NewToolResultError("doc_id argument is required and must be a string"), nil
	}

	deleted, err := h.engine.DeleteDocument(docID)
	if err != nil {
		return toolError("failed to delete document", err), nil
	}
	if deleted == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("document with ID %s not found", docID)), nil
	}

	response := fmt.Sprintf("**Document Deleted Successfully**\n\n- Document ID: %s\n- Chunks deleted: %d\n", docID, deleted)
	return mcp.NewToolResultText(response), nil
}

// GetTags handles the get_tags tool
func (h *Handlers) GetTags(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := h.engine.Tags()
	if err != nil {
		return toolError("failed to get tags", err), nil
	}
	if len(tags) == 0 {
		return mcp.NewToolResultText("No tags found."), nil
	}

	lines := make([]string, 0, len(tags))
	for _, tag := range tags {
		lines = append(lines, fmt.Sprintf("- %s", tag))
	}

	response := fmt.Sprintf("**Tags (%d total):**\n\n%s\n", len(tags), strings.Join(lines, "\n"))
	return mcp.NewToolResultText(response), nil
}

// GetDocumentStructure handles the get_document_structure tool
func (h *Handlers) GetDocumentStructure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, err := request.RequireString("doc_id")
	if err != nil {
		return mcp.NewToolResultError("doc_id argument is required and must be a string"), nil
	}

	sections, err := h.engine.DocumentSections(docID)
	if err != nil {
		return toolError("failed to get document structure", err), nil
	}
	if len(sections) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No structure found for document %s. It may not exist or have no hierarchical structure.", docID)), nil
	}

	lines := make([]string, 0, len(sections))
	for _, section := range sections {
		indent := section.SectionLevel - 1
		if indent < 0 {
			indent = 0
		}
		lines = append(lines, fmt.Sprintf("%s- %s (%d chunks)", strings.Repeat("  ", indent), section.SectionPath, section.ChunkCount))
	}

	response := fmt.Sprintf("**Document Structure (Table of Contents)**\n\nDocument ID: %s\nTotal sections: %d\n\n%s\n",
		docID, len(sections), strings.Join(lines, "\n"))
	return mcp.NewToolResultText(response), nil
}

// GetStats handles the get_stats tool
func (h *Handlers) GetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.engine.Stats()
	if err != nil {
		return toolError("failed to get stats", err), nil
	}

	var b strings.Builder
	b.WriteString("**Statistics**\n\n")
	fmt.Fprintf(&b, "- Total documents: %d\n", stats.TotalDocuments)
	fmt.Fprintf(&b, "- Total chunks: %d\n", stats.TotalChunks)

	if h.index != nil {
		symbols, err := h.index.Count()
		if err != nil {
			return toolError("failed to count symbols", err), nil
		}
		repos, err := h.index.Repos()
		if err != nil {
			return toolError("failed to list repos", err), nil
		}
		fmt.Fprintf(&b, "- Indexed symbols: %d across %d repos\n", symbols, len(repos))
	}

	return mcp.NewToolResultText(b.String()), nil
}

// SearchCode handles the search_code tool
func (h *Handlers) SearchCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required and must be a string"), nil
	}
	if h.index == nil {
		return mcp.NewToolResultError("code index is not configured; run the index command first"), nil
	}

	match, err := models.ParseMatchMode(request.GetString("match", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo := request.GetString("repo", "")
	limit := request.GetInt("limit", 10)

	records, err := h.index.Search(name, match, repo, limit)
	if err != nil {
		return toolError("symbol search failed", err), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No symbols matching %q.", name)), nil
	}

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, fmt.Sprintf("- %s (%s) %s:%d", rec.QualifiedName, rec.Kind, rec.RelativePath, rec.Line))
	}

	response := fmt.Sprintf("**Symbols matching %q (%d):**\n\n%s\n", name, len(records), strings.Join(lines, "\n"))
	return mcp.NewToolResultText(response), nil
}

// GetCode handles the get_code tool
func (h *Handlers) GetCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required and must be a string"), nil
	}
	if h.index == nil {
		return mcp.NewToolResultError("code index is not configured; run the index command first"), nil
	}

	mode, err := models.ParseDetailMode(request.GetString("mode", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo := request.GetString("repo", "")

	snippet, err := h.index.Get(name, mode, repo)
	if err != nil {
		return toolError("code lookup failed", err), nil
	}
	if snippet == nil {
		return mcp.NewToolResultText(fmt.Sprintf("Symbol %q not found in the code index.", name)), nil
	}

	response := fmt.Sprintf("**%s** (%s) %s:%d-%d\n\n```%s\n%s\n```\n",
		snippet.Name, snippet.Kind, snippet.FilePath, snippet.StartLine, snippet.EndLine, snippet.Language, snippet.Code)
	return mcp.NewToolResultText(response), nil
}

// Usage handles the usage tool
func (h *Handlers) Usage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	usage, err := h.gate.Usage()
	if err != nil {
		return toolError("failed to read usage", err), nil
	}

	response := fmt.Sprintf("**API Usage**\n\n- Requests/minute: %d/%d (resets in %s)\n- Tokens/minute: %d/%d (resets in %s)\n- Requests/day: %d/%d (resets in %s)\n",
		usage.RequestsPerMinute.Used, usage.RequestsPerMinute.Limit, resetIn(usage.RequestsPerMinute),
		usage.TokensPerMinute.Used, usage.TokensPerMinute.Limit, resetIn(usage.TokensPerMinute),
		usage.RequestsPerDay.Used, usage.RequestsPerDay.Limit, resetIn(usage.RequestsPerDay))
	return mcp.NewToolResultText(response), nil
}

// formatSources renders source references as markdown bullets.
func formatSources(sources []models.SourceRef) string {
	if len(sources) == 0 {
		return "- none"
	}
	lines := make([]string, 0, len(sources))
	for _, source := range sources {
		lines = append(lines, fmt.Sprintf("- %s (%s, chunk %d, score: %.4f)",
			source.SectionPath, source.Filename, source.ChunkIndex, source.Score))
	}
	return strings.Join(lines, "\n")
}

// toolError maps an operation error to an MCP error result. Rate-limit
// rejections keep their reset hint so the caller knows how long to wait.
func toolError(action string, err error) *mcp.CallToolResult {
	var rle *ratelimit.RateLimitError
	if errors.As(err, &rle) {
		return mcp.NewToolResultError(fmt.Sprintf("Rate limited: %v", rle))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", action, err))
}

func resetIn(w models.WindowUsage) string {
	d := time.Until(w.ResetAt).Round(time.Second)
	if d < 0 {
		d = 0
	}
	return d.String()
}

// stringArrayArg reads an optional string-array argument.
func stringArrayArg(request mcp.CallToolRequest, key string) []string {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
