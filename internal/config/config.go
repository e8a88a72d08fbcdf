// ABOUTME: Centralized configuration for the Quarry MCP server and CLI
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Config holds all configuration for the Quarry system
type Config struct {
	// Storage settings
	DataDir string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	MaxRetries     int
	RetryDelay     time.Duration

	// Rate limit ceilings
	RPMLimit int
	TPMLimit int
	RPDLimit int

	// Chunking and retrieval settings
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		DataDir:        getEnv("QUARRY_DATA_DIR", filepath.Join(xdg.DataHome, "quarry")),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("QUARRY_OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("QUARRY_EMBEDDING_MODEL", "text-embedding-3-small"),
		MaxRetries:     getEnvInt("QUARRY_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("QUARRY_RETRY_DELAY", 2*time.Second),
		RPMLimit:       getEnvInt("QUARRY_RPM_LIMIT", 15),
		TPMLimit:       getEnvInt("QUARRY_TPM_LIMIT", 250000),
		RPDLimit:       getEnvInt("QUARRY_RPD_LIMIT", 1000),
		ChunkSize:      getEnvInt("QUARRY_CHUNK_SIZE", 1000),
		ChunkOverlap:   getEnvInt("QUARRY_CHUNK_OVERLAP", 200),
		TopK:           getEnvInt("QUARRY_TOP_K", 5),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("QUARRY_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("QUARRY_CHUNK_OVERLAP must be 0 to chunk size, got %d", c.ChunkOverlap)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("QUARRY_TOP_K must be positive, got %d", c.TopK)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("QUARRY_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.RPMLimit <= 0 || c.TPMLimit <= 0 || c.RPDLimit <= 0 {
		return fmt.Errorf("rate limit ceilings must be positive, got rpm=%d tpm=%d rpd=%d",
			c.RPMLimit, c.TPMLimit, c.RPDLimit)
	}
	return nil
}

// DBPath returns the location of the SQLite database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "quarry.db")
}

// EnsureDataDir creates the data directory if it does not exist.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir %s: %w", c.DataDir, err)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
