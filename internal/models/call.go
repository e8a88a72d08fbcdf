// ABOUTME: Call ledger records for rate-limit accounting
// ABOUTME: One record per metered API call with timestamp, tokens, and kind
package models

import "time"

// CallKind labels the kind of metered API call
type CallKind string

const (
	CallEmbed    CallKind = "embed"
	CallGenerate CallKind = "generate"
)

// CallRecord is one append-only row in the rate-limit ledger
type CallRecord struct {
	ID        int64     `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Tokens    int       `json:"tokens"`
	Kind      CallKind  `json:"kind"`
}

// WindowUsage summarizes one ceiling's usage within its window
type WindowUsage struct {
	Used    int       `json:"used"`
	Limit   int       `json:"limit"`
	ResetAt time.Time `json:"reset_at"`
}

// Remaining returns the headroom left under this ceiling, never negative.
func (w WindowUsage) Remaining() int {
	if w.Used >= w.Limit {
		return 0
	}
	return w.Limit - w.Used
}

// UsageSnapshot reports current usage against all three ceilings
type UsageSnapshot struct {
	RequestsPerMinute WindowUsage `json:"requests_per_minute"`
	TokensPerMinute   WindowUsage `json:"tokens_per_minute"`
	RequestsPerDay    WindowUsage `json:"requests_per_day"`
}
