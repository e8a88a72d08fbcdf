// ABOUTME: Tests for stats and usage command structure
// ABOUTME: Verifies command metadata for both reporting commands

package commands

import (
	"strings"
	"testing"
)

func TestNewStatsCmd(t *testing.T) {
	cmd := NewStatsCmd()

	if cmd.Use != "stats" {
		t.Errorf("Use = %q, want %q", cmd.Use, "stats")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
}

func TestNewUsageCmd(t *testing.T) {
	cmd := NewUsageCmd()

	if cmd.Use != "usage" {
		t.Errorf("Use = %q, want %q", cmd.Use, "usage")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}

	// Should mention the rate limit windows
	if !strings.Contains(cmd.Long, "requests per minute") {
		t.Error("Long description should mention requests per minute")
	}
}
