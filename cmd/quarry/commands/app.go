// ABOUTME: Shared application wiring for CLI commands
// ABOUTME: Opens config, storage, rate gate, and the retrieval engine in one place
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/quarry-labs/quarry/internal/codeindex"
	"github.com/quarry-labs/quarry/internal/config"
	"github.com/quarry-labs/quarry/internal/core"
	"github.com/quarry-labs/quarry/internal/llm"
	"github.com/quarry-labs/quarry/internal/rag"
	"github.com/quarry-labs/quarry/internal/ratelimit"
	"github.com/quarry-labs/quarry/internal/storage/sqlite"
)

// app bundles the wired components every command works against.
type app struct {
	cfg    *config.Config
	db     *sqlite.DB
	gate   *ratelimit.Gate
	client *llm.Client
	index  *codeindex.Index
	engine *rag.Engine
}

// openApp loads configuration and opens the database. When requireKey is
// true the command needs OpenAI access and a missing key is an error;
// otherwise the engine comes up without embedding or generation support.
func openApp(requireKey bool) (*app, error) {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}

	db, err := sqlite.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	gate := ratelimit.NewGate(sqlite.NewCallLedger(db), ratelimit.Limits{
		RPM: cfg.RPMLimit,
		TPM: cfg.TPMLimit,
		RPD: cfg.RPDLimit,
	})
	index := codeindex.New(sqlite.NewSymbolStore(db))

	var client *llm.Client
	if cfg.OpenAIKey != "" {
		client, err = llm.NewClientWithConfig(&llm.ClientConfig{
			APIKey:         cfg.OpenAIKey,
			ChatModel:      cfg.ChatModel,
			EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
			MaxRetries:     cfg.MaxRetries,
			RetryDelay:     cfg.RetryDelay,
		}, gate)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("initializing OpenAI client: %w", err)
		}
	} else if requireKey {
		_ = db.Close()
		return nil, fmt.Errorf("OPENAI_API_KEY is not set (export it or add it to .env)")
	}

	var embedder rag.Embedder
	var generator rag.Generator
	if client != nil {
		embedder = client
		generator = client
	}
	engine := rag.NewEngine(sqlite.NewChunkStore(db), index, embedder, generator, rag.EngineConfig{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		DefaultTopK:  cfg.TopK,
	})

	return &app{
		cfg:    cfg,
		db:     db,
		gate:   gate,
		client: client,
		index:  index,
		engine: engine,
	}, nil
}

// orchestrator builds the smart query pipeline on top of the engine.
func (a *app) orchestrator() *core.Orchestrator {
	router := core.NewRetrievalRouter(a.cfg.TopK, "")
	return core.NewOrchestrator(rag.NewToolset(a.engine, a.index), router)
}

func (a *app) Close() error {
	return a.db.Close()
}
