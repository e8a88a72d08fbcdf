// ABOUTME: MCP tool definitions and registration for the Quarry server
// ABOUTME: Defines JSON schemas for all 12 tools over the query and index pipelines
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/quarry-labs/quarry/internal/codeindex"
	"github.com/quarry-labs/quarry/internal/core"
	"github.com/quarry-labs/quarry/internal/rag"
	"github.com/quarry-labs/quarry/internal/ratelimit"
)

// RegisterTools registers all MCP tools with the server. index may be nil
// when no code index has been built; the code tools then report that.
func RegisterTools(server *mcpserver.MCPServer, engine *rag.Engine, orchestrator *core.Orchestrator, index *codeindex.Index, gate *ratelimit.Gate) *Handlers {
	handlers := &Handlers{
		engine:       engine,
		orchestrator: orchestrator,
		index:        index,
		gate:         gate,
	}

	// 1. ask - classify, route, and answer with grounding
	server.AddTool(mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about the indexed documentation and code. The question is classified, routed to the right retrieval tools, and answered with sources and a tool trace.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
				"expand_detail": map[string]interface{}{
					"type":        "boolean",
					"description": "Retrieve full code bodies instead of signatures (default: false)",
					"default":     false,
				},
				"repo": map[string]interface{}{
					"type":        "string",
					"description": "Optional repository name to restrict code lookups to",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.Ask)

	// 2. query_docs - direct documentation query
	server.AddTool(mcp.Tool{
		Name:        "query_docs",
		Description: "Query stored documentation with a question. Optionally filter by tags and/or section path. Retrieves relevant context and generates an answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to ask",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Number of relevant chunks to retrieve (optional, default: 5)",
					"default":     5,
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Optional tags to filter documents by (e.g., ['dagster', 'python'])",
				},
				"section_path": map[string]interface{}{
					"type":        "string",
					"description": "Optional section path to filter by (e.g., 'Installation > Prerequisites')",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.QueryDocs)

	// 3. query_docs_enhanced - documentation query with reference following
	server.AddTool(mcp.Tool{
		Name:        "query_docs_enhanced",
		Description: "Query documentation and automatically follow code references mentioned in the answer. References are resolved against the code index and the answer is regenerated with the code in context.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to ask",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Number of relevant chunks to retrieve (optional, default: 5)",
					"default":     5,
				},
				"max_followups": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of references to follow (optional, default: 3)",
					"default":     3,
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Optional tags to filter documents by",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.QueryDocsEnhanced)

	// 4. add_document - ingest one file
	server.AddTool(mcp.Tool{
		Name:        "add_document",
		Description: "Add a text or markdown document. Markdown gets hierarchical section-aware chunking. Optionally add tags and a base path for organization.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"file_path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the document file (.txt or .md)",
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Optional tags for categorization (e.g., ['dagster', 'api', 'docs'])",
				},
				"base_path": map[string]interface{}{
					"type":        "string",
					"description": "Optional base path; the file's directories below it become section path prefixes",
				},
			},
			Required: []string{"file_path"},
		},
	}, handlers.AddDocument)

	// 5. list_documents
	server.AddTool(mcp.Tool{
		Name:        "list_documents",
		Description: "List all stored documents. Optionally filter by tags.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tags": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Optional tags to filter by",
				},
			},
		},
	}, handlers.ListDocuments)

	// 6. delete_document
	server.AddTool(mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a document by its document ID.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"doc_id": map[string]interface{}{
					"type":        "string",
					"description": "The document ID to delete",
				},
			},
			Required: []string{"doc_id"},
		},
	}, handlers.DeleteDocument)

	// 7. get_tags
	server.AddTool(mcp.Tool{
		Name:        "get_tags",
		Description: "Get all unique tags across stored documents.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetTags)

	// 8. get_document_structure
	server.AddTool(mcp.Tool{
		Name:        "get_document_structure",
		Description: "Get the hierarchical section structure of a document (table of contents).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"doc_id": map[string]interface{}{
					"type":        "string",
					"description": "The document ID to get structure for",
				},
			},
			Required: []string{"doc_id"},
		},
	}, handlers.GetDocumentStructure)

	// 9. get_stats
	server.AddTool(mcp.Tool{
		Name:        "get_stats",
		Description: "Get statistics about the stored documents and the code index.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetStats)

	// 10. search_code - symbol search over the code index
	server.AddTool(mcp.Tool{
		Name:        "search_code",
		Description: "Search the code-symbol index by name. Match modes: exact, prefix, contains.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Symbol name to search for (e.g., 'Scheduler' or 'Gate.Admit')",
				},
				"match": map[string]interface{}{
					"type":        "string",
					"description": "Match mode: exact, prefix, or contains (default: contains)",
					"default":     "contains",
				},
				"repo": map[string]interface{}{
					"type":        "string",
					"description": "Optional repository name to search within",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results (default: 10)",
					"default":     10,
				},
			},
			Required: []string{"name"},
		},
	}, handlers.SearchCode)

	// 11. get_code - render one symbol at a detail mode
	server.AddTool(mcp.Tool{
		Name:        "get_code",
		Description: "Retrieve a symbol's source at a detail mode: signature, methods_list, outline, or full.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Symbol name, simple or qualified (e.g., 'Greeter' or 'Greeter.Greet')",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Detail mode: signature, methods_list, outline, or full (default: signature)",
					"default":     "signature",
				},
				"repo": map[string]interface{}{
					"type":        "string",
					"description": "Optional repository name to resolve within",
				},
			},
			Required: []string{"name"},
		},
	}, handlers.GetCode)

	// 12. usage - rate-limit window usage
	server.AddTool(mcp.Tool{
		Name:        "usage",
		Description: "Show current API usage against the rate-limit ceilings (requests and tokens per minute, requests per day).",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.Usage)

	return handlers
}
