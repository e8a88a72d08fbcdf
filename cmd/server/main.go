// ABOUTME: Main entry point for the Quarry MCP server with stdio transport
// ABOUTME: Initializes storage, rate gate, engine, and MCP server with all tools
package main

import (
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	openai "github.com/sashabaranov/go-openai"

	"github.com/quarry-labs/quarry/internal/codeindex"
	"github.com/quarry-labs/quarry/internal/config"
	"github.com/quarry-labs/quarry/internal/core"
	"github.com/quarry-labs/quarry/internal/llm"
	"github.com/quarry-labs/quarry/internal/mcp"
	"github.com/quarry-labs/quarry/internal/rag"
	"github.com/quarry-labs/quarry/internal/ratelimit"
	"github.com/quarry-labs/quarry/internal/storage/sqlite"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.EnsureDataDir(); err != nil {
		log.Fatalf("Failed to prepare data dir: %v", err)
	}

	// Verify we have required API keys
	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - documentation search and ingestion will not work")
	}

	db, err := sqlite.Open(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	gate := ratelimit.NewGate(sqlite.NewCallLedger(db), ratelimit.Limits{
		RPM: cfg.RPMLimit,
		TPM: cfg.TPMLimit,
		RPD: cfg.RPDLimit,
	})
	index := codeindex.New(sqlite.NewSymbolStore(db))

	var embedder rag.Embedder
	var generator rag.Generator
	if cfg.OpenAIKey != "" {
		client, err := llm.NewClientWithConfig(&llm.ClientConfig{
			APIKey:         cfg.OpenAIKey,
			ChatModel:      cfg.ChatModel,
			EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
			MaxRetries:     cfg.MaxRetries,
			RetryDelay:     cfg.RetryDelay,
		}, gate)
		if err != nil {
			log.Fatalf("Failed to initialize OpenAI client: %v", err)
		}
		embedder = client
		generator = client
	}

	engine := rag.NewEngine(sqlite.NewChunkStore(db), index, embedder, generator, rag.EngineConfig{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		DefaultTopK:  cfg.TopK,
	})
	orchestrator := core.NewOrchestrator(rag.NewToolset(engine, index), core.NewRetrievalRouter(cfg.TopK, ""))

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Quarry",
		"0.1.0",
	)

	// Register MCP tools
	mcp.RegisterTools(server, engine, orchestrator, index, gate)

	// Start server with stdio transport
	log.Println("Quarry MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
