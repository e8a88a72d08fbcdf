// ABOUTME: Exponential backoff policy for retried provider calls
// ABOUTME: Delay doubles per attempt with ±25% jitter and a hard ceiling
package util

import (
	"math/rand/v2"
	"time"
)

// DefaultBackoffCeiling caps any single retry delay.
const DefaultBackoffCeiling = 30 * time.Second

// Backoff computes retry delays that double per attempt. A zero Ceiling
// means DefaultBackoffCeiling. Attempt zero is the initial try and
// waits nothing.
type Backoff struct {
	Base    time.Duration
	Ceiling time.Duration
}

// Delay returns how long to wait before the given attempt, jittered by
// up to ±25%.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt <= 0 || b.Base <= 0 {
		return 0
	}

	ceiling := b.Ceiling
	if ceiling <= 0 {
		ceiling = DefaultBackoffCeiling
	}

	// The shift overflows int64 long before attempt 63; past the
	// ceiling the exact power no longer matters.
	delay := ceiling
	if attempt < 32 {
		if d := b.Base << uint(attempt); d > 0 && d < ceiling {
			delay = d
		}
	}

	if half := int64(delay) / 2; half > 0 {
		delay += time.Duration(rand.Int64N(half)) - delay/4
	}
	return delay
}
