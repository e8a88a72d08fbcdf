// ABOUTME: Tests for shared CLI formatting helpers
// ABOUTME: Verifies truncation and rate limit reset rendering

package commands

import (
	"testing"
	"time"

	"github.com/quarry-labs/quarry/internal/models"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string truncated", "hello world", 8, "hello..."},
		{"tiny max keeps prefix", "hello", 3, "hel"},
		{"unicode safe", "héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatReset(t *testing.T) {
	future := models.WindowUsage{ResetAt: time.Now().Add(90 * time.Second)}
	got := formatReset(future)
	if got != "1m30s" && got != "1m29s" {
		t.Errorf("formatReset(future) = %q, want about 1m30s", got)
	}

	past := models.WindowUsage{ResetAt: time.Now().Add(-time.Minute)}
	if got := formatReset(past); got != "0s" {
		t.Errorf("formatReset(past) = %q, want 0s", got)
	}
}
