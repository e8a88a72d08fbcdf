// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %s, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.RPMLimit != 15 {
		t.Errorf("RPMLimit = %d, want 15", cfg.RPMLimit)
	}
	if cfg.TPMLimit != 250000 {
		t.Errorf("TPMLimit = %d, want 250000", cfg.TPMLimit)
	}
	if cfg.RPDLimit != 1000 {
		t.Errorf("RPDLimit = %d, want 1000", cfg.RPDLimit)
	}
	if cfg.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want 1000", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 200 {
		t.Errorf("ChunkOverlap = %d, want 200", cfg.ChunkOverlap)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir is empty, want an XDG data path")
	}
	if filepath.Base(cfg.DataDir) != "quarry" {
		t.Errorf("DataDir = %s, want a path ending in quarry", cfg.DataDir)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	// Set custom environment variables
	os.Clearenv()
	os.Setenv("QUARRY_DATA_DIR", "/tmp/quarry-test")
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("QUARRY_OPENAI_MODEL", "gpt-4")
	os.Setenv("QUARRY_EMBEDDING_MODEL", "text-embedding-3-large")
	os.Setenv("QUARRY_MAX_RETRIES", "5")
	os.Setenv("QUARRY_RETRY_DELAY", "3s")
	os.Setenv("QUARRY_RPM_LIMIT", "60")
	os.Setenv("QUARRY_TPM_LIMIT", "1000000")
	os.Setenv("QUARRY_RPD_LIMIT", "5000")
	os.Setenv("QUARRY_CHUNK_SIZE", "800")
	os.Setenv("QUARRY_CHUNK_OVERLAP", "100")
	os.Setenv("QUARRY_TOP_K", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify custom values
	if cfg.DataDir != "/tmp/quarry-test" {
		t.Errorf("DataDir = %s, want /tmp/quarry-test", cfg.DataDir)
	}
	if cfg.OpenAIKey != "test-key" {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
	if cfg.ChatModel != "gpt-4" {
		t.Errorf("ChatModel = %s, want gpt-4", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-large", cfg.EmbeddingModel)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 3*time.Second {
		t.Errorf("RetryDelay = %v, want 3s", cfg.RetryDelay)
	}
	if cfg.RPMLimit != 60 {
		t.Errorf("RPMLimit = %d, want 60", cfg.RPMLimit)
	}
	if cfg.TPMLimit != 1000000 {
		t.Errorf("TPMLimit = %d, want 1000000", cfg.TPMLimit)
	}
	if cfg.RPDLimit != 5000 {
		t.Errorf("RPDLimit = %d, want 5000", cfg.RPDLimit)
	}
	if cfg.ChunkSize != 800 {
		t.Errorf("ChunkSize = %d, want 800", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 100 {
		t.Errorf("ChunkOverlap = %d, want 100", cfg.ChunkOverlap)
	}
	if cfg.TopK != 10 {
		t.Errorf("TopK = %d, want 10", cfg.TopK)
	}
	if cfg.DBPath() != filepath.Join("/tmp/quarry-test", "quarry.db") {
		t.Errorf("DBPath() = %s, want /tmp/quarry-test/quarry.db", cfg.DBPath())
	}
}

func TestValidate_InvalidChunking(t *testing.T) {
	cfg := &Config{
		ChunkSize:    0,
		ChunkOverlap: 0,
		TopK:         5,
		MaxRetries:   3,
		RPMLimit:     15,
		TPMLimit:     250000,
		RPDLimit:     1000,
	}

	err := cfg.Validate()
	if err == nil {
		t.Error("Validate() should fail for chunk size 0")
	}

	cfg.ChunkSize = 500
	cfg.ChunkOverlap = 500
	err = cfg.Validate()
	if err == nil {
		t.Error("Validate() should fail for overlap >= chunk size")
	}

	cfg.ChunkOverlap = -1
	err = cfg.Validate()
	if err == nil {
		t.Error("Validate() should fail for negative overlap")
	}
}

func TestValidate_InvalidMaxRetries(t *testing.T) {
	cfg := &Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		TopK:         5,
		MaxRetries:   15,
		RPMLimit:     15,
		TPMLimit:     250000,
		RPDLimit:     1000,
	}

	err := cfg.Validate()
	if err == nil {
		t.Error("Validate() should fail for MaxRetries > 10")
	}

	cfg.MaxRetries = -1
	err = cfg.Validate()
	if err == nil {
		t.Error("Validate() should fail for MaxRetries < 0")
	}
}

func TestValidate_InvalidLimits(t *testing.T) {
	cfg := &Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		TopK:         5,
		MaxRetries:   3,
		RPMLimit:     0,
		TPMLimit:     250000,
		RPDLimit:     1000,
	}

	err := cfg.Validate()
	if err == nil {
		t.Error("Validate() should fail for RPMLimit <= 0")
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal int
		want       int
	}{
		{"empty uses default", "", 7, 7},
		{"valid value", "42", 7, 42},
		{"invalid value uses default", "not-a-number", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv("TEST_INT", tt.value)
			}
			got := getEnvInt("TEST_INT", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}
