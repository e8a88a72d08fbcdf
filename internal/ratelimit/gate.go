// ABOUTME: Gate enforces RPM, TPM, and RPD ceilings over a persistent call ledger
// ABOUTME: Admission checks and record appends are serialized so concurrent callers cannot jointly exceed a limit
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/quarry-labs/quarry/internal/models"
)

const (
	minuteWindow = time.Minute
	dayWindow    = 24 * time.Hour

	// Purge cadence and retention, applied opportunistically after admissions.
	purgeEvery = 20
	purgeKeep  = 24 * time.Hour
)

// Limits holds the three admission ceilings.
type Limits struct {
	RPM int // requests per rolling 60s
	TPM int // tokens per rolling 60s
	RPD int // requests per rolling 24h
}

// DefaultLimits returns the free-tier defaults.
func DefaultLimits() Limits {
	return Limits{RPM: 15, TPM: 250000, RPD: 1000}
}

// CallLog is the persistence contract the gate runs against.
type CallLog interface {
	Append(rec models.CallRecord) (int64, error)
	UpdateTokens(id int64, tokens int) error
	CountAfter(cutoff time.Time) (int, error)
	TokensAfter(cutoff time.Time) (int, error)
	OldestAfter(cutoff time.Time) (time.Time, bool, error)
	DeleteBefore(cutoff time.Time) (int64, error)
}

// Gate is the admission controller for outbound metered calls.
type Gate struct {
	limits Limits
	log    CallLog

	mu  sync.Mutex
	now func() time.Time
}

// NewGate creates a gate over the given call log.
func NewGate(log CallLog, limits Limits) *Gate {
	return &Gate{
		limits: limits,
		log:    log,
		now:    time.Now,
	}
}

// Limits returns the configured ceilings.
func (g *Gate) Limits() Limits {
	return g.limits
}

// Reservation is a ledger row appended at admission time with the estimated
// token count. Commit replaces the estimate once the true usage is known.
type Reservation struct {
	gate *Gate
	id   int64
}

// Commit re-records the reservation with the authoritative token count.
func (r *Reservation) Commit(actualTokens int) error {
	r.gate.mu.Lock()
	defer r.gate.mu.Unlock()
	if err := r.gate.log.UpdateTokens(r.id, actualTokens); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}
	return nil
}

// Admit checks all ceilings and, on success, appends a record carrying the
// estimated token count. The check and the append happen under one lock so
// two concurrent callers cannot both observe headroom for the last slot.
// The caller performs the metered call afterwards and commits the returned
// reservation with the true token count when the provider reports one.
func (g *Gate) Admit(estimatedTokens int, kind models.CallKind) (*Reservation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkLocked(estimatedTokens); err != nil {
		return nil, err
	}

	id, err := g.log.Append(models.CallRecord{
		Timestamp: g.now(),
		Tokens:    estimatedTokens,
		Kind:      kind,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record admission: %w", err)
	}

	g.maybePurgeLocked()

	return &Reservation{gate: g, id: id}, nil
}

// CheckAndAdmit evaluates the ceilings without recording anything. Callers
// using this two-step path must call Record after the metered call; prefer
// Admit, which closes the window between check and record.
func (g *Gate) CheckAndAdmit(estimatedTokens int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.checkLocked(estimatedTokens)
}

// Record appends a call record with the current timestamp.
func (g *Gate) Record(tokens int, kind models.CallKind) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, err := g.log.Append(models.CallRecord{
		Timestamp: g.now(),
		Tokens:    tokens,
		Kind:      kind,
	})
	if err != nil {
		return fmt.Errorf("failed to record call: %w", err)
	}

	g.maybePurgeLocked()
	return nil
}

// checkLocked runs the ceiling cascade: daily requests first because
// day-level scarcity is the harder constraint, then per-minute requests,
// then per-minute tokens. Callers must hold g.mu.
func (g *Gate) checkLocked(estimatedTokens int) error {
	now := g.now()

	requests, err := g.log.CountAfter(now.Add(-minuteWindow))
	if err != nil {
		return fmt.Errorf("failed to count requests: %w", err)
	}
	tokens, err := g.log.TokensAfter(now.Add(-minuteWindow))
	if err != nil {
		return fmt.Errorf("failed to sum tokens: %w", err)
	}
	daily, err := g.log.CountAfter(now.Add(-dayWindow))
	if err != nil {
		return fmt.Errorf("failed to count daily requests: %w", err)
	}

	if daily >= g.limits.RPD {
		reset := g.resetAtLocked(now, dayWindow)
		return &RateLimitError{
			Kind:    LimitRPD,
			Current: daily,
			Limit:   g.limits.RPD,
			ResetAt: reset,
			Wait:    waitUntil(now, reset),
		}
	}

	if requests >= g.limits.RPM {
		reset := g.resetAtLocked(now, minuteWindow)
		return &RateLimitError{
			Kind:    LimitRPM,
			Current: requests,
			Limit:   g.limits.RPM,
			ResetAt: reset,
			Wait:    waitUntil(now, reset),
		}
	}

	if tokens+estimatedTokens > g.limits.TPM {
		reset := g.resetAtLocked(now, minuteWindow)
		return &RateLimitError{
			Kind:      LimitTPM,
			Current:   tokens,
			Limit:     g.limits.TPM,
			Requested: estimatedTokens,
			ResetAt:   reset,
			Wait:      waitUntil(now, reset),
		}
	}

	return nil
}

// resetAtLocked computes when the window frees a slot: the oldest in-window
// record plus the window length, or now plus the window if the window is
// empty. Callers must hold g.mu.
func (g *Gate) resetAtLocked(now time.Time, window time.Duration) time.Time {
	oldest, ok, err := g.log.OldestAfter(now.Add(-window))
	if err != nil || !ok {
		return now.Add(window)
	}
	return oldest.Add(window)
}

func waitUntil(now, reset time.Time) time.Duration {
	wait := reset.Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}

// maybePurgeLocked trims aged records every purgeEvery admissions rather
// than on every call. Purge failures are ignored; stale rows only cost
// storage, never correctness, since window queries exclude them anyway.
func (g *Gate) maybePurgeLocked() {
	count, err := g.log.CountAfter(g.now().Add(-minuteWindow))
	if err != nil || count == 0 || count%purgeEvery != 0 {
		return
	}
	_, _ = g.log.DeleteBefore(g.now().Add(-purgeKeep))
}

// CountRequests returns the number of calls within the trailing window.
func (g *Gate) CountRequests(window time.Duration) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.log.CountAfter(g.now().Add(-window))
}

// CountTokens returns the token total within the trailing window.
func (g *Gate) CountTokens(window time.Duration) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.log.TokensAfter(g.now().Add(-window))
}

// OldestTimestamp returns the earliest call within the trailing window.
// The boolean is false when the window is empty.
func (g *Gate) OldestTimestamp(window time.Duration) (time.Time, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.log.OldestAfter(g.now().Add(-window))
}

// Purge deletes records older than the keep horizon.
func (g *Gate) Purge(keep time.Duration) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.log.DeleteBefore(g.now().Add(-keep))
}

// Usage reports current consumption against all three ceilings.
func (g *Gate) Usage() (models.UsageSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	requests, err := g.log.CountAfter(now.Add(-minuteWindow))
	if err != nil {
		return models.UsageSnapshot{}, fmt.Errorf("failed to count requests: %w", err)
	}
	tokens, err := g.log.TokensAfter(now.Add(-minuteWindow))
	if err != nil {
		return models.UsageSnapshot{}, fmt.Errorf("failed to sum tokens: %w", err)
	}
	daily, err := g.log.CountAfter(now.Add(-dayWindow))
	if err != nil {
		return models.UsageSnapshot{}, fmt.Errorf("failed to count daily requests: %w", err)
	}

	minuteReset := g.resetAtLocked(now, minuteWindow)
	dayReset := g.resetAtLocked(now, dayWindow)

	return models.UsageSnapshot{
		RequestsPerMinute: models.WindowUsage{Used: requests, Limit: g.limits.RPM, ResetAt: minuteReset},
		TokensPerMinute:   models.WindowUsage{Used: tokens, Limit: g.limits.TPM, ResetAt: minuteReset},
		RequestsPerDay:    models.WindowUsage{Used: daily, Limit: g.limits.RPD, ResetAt: dayReset},
	}, nil
}
