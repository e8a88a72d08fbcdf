// ABOUTME: Tests for the API call ledger backing rate-limit accounting
// ABOUTME: Covers window counting, token sums, oldest lookup, and purging
package sqlite

import (
	"testing"
	"time"

	"github.com/quarry-labs/quarry/internal/models"
)

func TestCallLedgerAppendAndCount(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewCallLedger(db)

	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := ledger.Append(models.CallRecord{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Tokens:    100,
			Kind:      models.CallEmbed,
		})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	count, err := ledger.CountAfter(base.Add(-time.Second))
	if err != nil {
		t.Fatalf("CountAfter() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountAfter() = %d, want 3", count)
	}

	// The boundary is exclusive: a record exactly at the cutoff is outside.
	count, err = ledger.CountAfter(base)
	if err != nil {
		t.Fatalf("CountAfter() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountAfter() at boundary = %d, want 2", count)
	}
}

func TestCallLedgerTokensAfter(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewCallLedger(db)

	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	tokens := []int{100, 250, 75}
	for i, n := range tokens {
		_, err := ledger.Append(models.CallRecord{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Tokens:    n,
			Kind:      models.CallGenerate,
		})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	total, err := ledger.TokensAfter(base.Add(-time.Second))
	if err != nil {
		t.Fatalf("TokensAfter() error = %v", err)
	}
	if total != 425 {
		t.Errorf("TokensAfter() = %d, want 425", total)
	}

	// Empty window sums to zero.
	total, err = ledger.TokensAfter(base.Add(time.Hour))
	if err != nil {
		t.Fatalf("TokensAfter() error = %v", err)
	}
	if total != 0 {
		t.Errorf("TokensAfter() empty window = %d, want 0", total)
	}
}

func TestCallLedgerUpdateTokens(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewCallLedger(db)

	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	id, err := ledger.Append(models.CallRecord{Timestamp: base, Tokens: 500, Kind: models.CallGenerate})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if err := ledger.UpdateTokens(id, 342); err != nil {
		t.Fatalf("UpdateTokens() error = %v", err)
	}

	total, err := ledger.TokensAfter(base.Add(-time.Second))
	if err != nil {
		t.Fatalf("TokensAfter() error = %v", err)
	}
	if total != 342 {
		t.Errorf("TokensAfter() after update = %d, want 342", total)
	}
}

func TestCallLedgerOldestAfter(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewCallLedger(db)

	_, hasOldest, err := ledger.OldestAfter(time.Now())
	if err != nil {
		t.Fatalf("OldestAfter() error = %v", err)
	}
	if hasOldest {
		t.Error("OldestAfter() on empty ledger reported a record")
	}

	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := ledger.Append(models.CallRecord{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Tokens:    10,
			Kind:      models.CallEmbed,
		})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	oldest, hasOldest, err := ledger.OldestAfter(base.Add(30 * time.Second))
	if err != nil {
		t.Fatalf("OldestAfter() error = %v", err)
	}
	if !hasOldest {
		t.Fatal("OldestAfter() found no record in populated window")
	}
	want := base.Add(time.Minute)
	if !oldest.Equal(want) {
		t.Errorf("OldestAfter() = %v, want %v", oldest, want)
	}
}

func TestCallLedgerDeleteBefore(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewCallLedger(db)

	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := ledger.Append(models.CallRecord{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Tokens:    10,
			Kind:      models.CallEmbed,
		})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	purged, err := ledger.DeleteBefore(base.Add(2 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore() error = %v", err)
	}
	if purged != 2 {
		t.Errorf("DeleteBefore() purged = %d, want 2", purged)
	}

	count, err := ledger.CountAfter(base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountAfter() error = %v", err)
	}
	if count != 3 {
		t.Errorf("remaining count = %d, want 3", count)
	}
}

func TestCallLedgerTimestampRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewCallLedger(db)

	// Sub-second precision must survive the REAL column round trip.
	ts := time.Date(2026, 1, 15, 10, 0, 0, 250*int(time.Millisecond), time.UTC)
	if _, err := ledger.Append(models.CallRecord{Timestamp: ts, Tokens: 1, Kind: models.CallEmbed}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	oldest, ok, err := ledger.OldestAfter(ts.Add(-time.Second))
	if err != nil {
		t.Fatalf("OldestAfter() error = %v", err)
	}
	if !ok {
		t.Fatal("OldestAfter() found no record")
	}
	if diff := oldest.Sub(ts); diff > time.Millisecond || diff < -time.Millisecond {
		t.Errorf("round-trip drift = %v, want under 1ms", diff)
	}
}
