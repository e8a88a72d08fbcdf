// ABOUTME: CallLedger persists API call records for sliding-window rate accounting
// ABOUTME: Timestamps are stored as Unix seconds (REAL) so window scans hit the index
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/quarry-labs/quarry/internal/models"
)

// CallLedger records API calls in SQLite for rate-limit accounting.
type CallLedger struct {
	db *DB
}

// NewCallLedger creates a call ledger backed by the given database.
func NewCallLedger(db *DB) *CallLedger {
	return &CallLedger{db: db}
}

func toUnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromUnixSeconds(s float64) time.Time {
	return time.Unix(0, int64(s*float64(time.Second)))
}

// Append inserts a call record and returns its row ID.
func (l *CallLedger) Append(rec models.CallRecord) (int64, error) {
	result, err := l.db.Exec(
		"INSERT INTO api_calls (timestamp, tokens_used, call_type) VALUES (?, ?, ?)",
		toUnixSeconds(rec.Timestamp), rec.Tokens, string(rec.Kind),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append call record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get call record id: %w", err)
	}
	return id, nil
}

// UpdateTokens replaces the token count of a previously appended record.
func (l *CallLedger) UpdateTokens(id int64, tokens int) error {
	_, err := l.db.Exec("UPDATE api_calls SET tokens_used = ? WHERE id = ?", tokens, id)
	if err != nil {
		return fmt.Errorf("failed to update call record %d: %w", id, err)
	}
	return nil
}

// CountAfter returns the number of calls recorded strictly after the cutoff.
func (l *CallLedger) CountAfter(cutoff time.Time) (int, error) {
	var count int
	err := l.db.QueryRow(
		"SELECT COUNT(*) FROM api_calls WHERE timestamp > ?",
		toUnixSeconds(cutoff),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count calls: %w", err)
	}
	return count, nil
}

// TokensAfter returns the total tokens recorded strictly after the cutoff.
func (l *CallLedger) TokensAfter(cutoff time.Time) (int, error) {
	var total sql.NullInt64
	err := l.db.QueryRow(
		"SELECT SUM(tokens_used) FROM api_calls WHERE timestamp > ?",
		toUnixSeconds(cutoff),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum tokens: %w", err)
	}
	if !total.Valid {
		return 0, nil
	}
	return int(total.Int64), nil
}

// OldestAfter returns the timestamp of the oldest call strictly after the
// cutoff. The boolean is false when the window is empty.
func (l *CallLedger) OldestAfter(cutoff time.Time) (time.Time, bool, error) {
	var oldest sql.NullFloat64
	err := l.db.QueryRow(
		"SELECT MIN(timestamp) FROM api_calls WHERE timestamp > ?",
		toUnixSeconds(cutoff),
	).Scan(&oldest)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to find oldest call: %w", err)
	}
	if !oldest.Valid {
		return time.Time{}, false, nil
	}
	return fromUnixSeconds(oldest.Float64), true, nil
}

// DeleteBefore removes records older than the cutoff and reports how many went.
func (l *CallLedger) DeleteBefore(cutoff time.Time) (int64, error) {
	result, err := l.db.Exec(
		"DELETE FROM api_calls WHERE timestamp < ?",
		toUnixSeconds(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge call records: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged records: %w", err)
	}
	return n, nil
}
