// ABOUTME: Tests for database connection and schema initialization
// ABOUTME: Uses in-memory SQLite and temp dirs to avoid touching real data
package sqlite

import (
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenInMemory(t *testing.T) {
	db := setupTestDB(t)
	if db.Path() != ":memory:" {
		t.Errorf("Path() = %q, want %q", db.Path(), ":memory:")
	}
	if db.Conn() == nil {
		t.Error("Conn() returned nil")
	}
}

func TestOpenCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data", "quarry.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
}

func TestSchemaCreatesTables(t *testing.T) {
	db := setupTestDB(t)

	tables := []string{"api_calls", "chunks", "code_symbols"}
	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}
}

func TestOpenInitializesSchemaIdempotently(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quarry.db")

	db1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() error = %v", err)
	}
	if _, err := db1.Exec("INSERT INTO api_calls (timestamp, tokens_used, call_type) VALUES (1, 10, 'embedding')"); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	_ = db1.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer db2.Close()

	var count int
	if err := db2.QueryRow("SELECT COUNT(*) FROM api_calls").Scan(&count); err != nil {
		t.Fatalf("QueryRow() error = %v", err)
	}
	if count != 1 {
		t.Errorf("row count after reopen = %d, want 1", count)
	}
}
