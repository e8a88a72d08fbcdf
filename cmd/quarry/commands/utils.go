// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Consolidates formatting helpers used by list and usage output
package commands

import (
	"time"

	"github.com/quarry-labs/quarry/internal/models"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatReset renders the time until a rate limit window frees up.
func formatReset(w models.WindowUsage) string {
	d := time.Until(w.ResetAt).Round(time.Second)
	if d < 0 {
		d = 0
	}
	return d.String()
}
