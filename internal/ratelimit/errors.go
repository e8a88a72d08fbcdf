// ABOUTME: Typed rate-limit error carrying which ceiling tripped and when it resets
// ABOUTME: Callers use IsRateLimited to decide whether to wait and retry
package ratelimit

import (
	"errors"
	"fmt"
	"time"
)

// LimitKind identifies which ceiling a rate-limit error refers to.
type LimitKind string

const (
	LimitRPM LimitKind = "rpm"
	LimitTPM LimitKind = "tpm"
	LimitRPD LimitKind = "rpd"
)

// RateLimitError reports a failed admission check. It is always returned
// before the metered call is attempted.
type RateLimitError struct {
	Kind      LimitKind
	Current   int
	Limit     int
	Requested int // tokens requested, set for TPM only
	ResetAt   time.Time
	Wait      time.Duration
}

func (e *RateLimitError) Error() string {
	switch e.Kind {
	case LimitRPD:
		return fmt.Sprintf(
			"RPD limit exceeded: %d/%d requests in last 24h. Rate limit will reset in %.1f hours.",
			e.Current, e.Limit, e.Wait.Hours(),
		)
	case LimitTPM:
		return fmt.Sprintf(
			"TPM limit exceeded: %d/%d tokens. Current usage: %d tokens, Requested: %d tokens. Rate limit will reset in %.1f seconds.",
			e.Current+e.Requested, e.Limit, e.Current, e.Requested, e.Wait.Seconds(),
		)
	default:
		return fmt.Sprintf(
			"RPM limit exceeded: %d/%d requests in last 60s. Rate limit will reset in %.1f seconds.",
			e.Current, e.Limit, e.Wait.Seconds(),
		)
	}
}

// IsRateLimited reports whether err is (or wraps) a RateLimitError.
func IsRateLimited(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}
