// ABOUTME: SQLite schema for the call ledger, chunk store, and code index
// ABOUTME: Creates all tables and indexes on first open
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Rate-limit call ledger (append-only, purged by age)
CREATE TABLE IF NOT EXISTS api_calls (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp REAL NOT NULL,
    tokens_used INTEGER NOT NULL,
    call_type TEXT NOT NULL
);

-- Document chunks with embedded vectors
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    doc_id TEXT NOT NULL,
    chunk_index INTEGER NOT NULL,
    total_chunks INTEGER NOT NULL,
    text TEXT NOT NULL,
    section_path TEXT NOT NULL,
    section_level INTEGER NOT NULL,
    filename TEXT,
    file_type TEXT,
    tags TEXT,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexed code symbols (one row per declaration, unique qualified name)
CREATE TABLE IF NOT EXISTS code_symbols (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    qualified_name TEXT UNIQUE NOT NULL,
    kind TEXT NOT NULL,
    file_path TEXT NOT NULL,
    line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    repo_name TEXT NOT NULL,
    relative_path TEXT NOT NULL,
    doc TEXT,
    receiver TEXT,
    exported INTEGER NOT NULL
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_api_calls_timestamp ON api_calls(timestamp);
CREATE INDEX IF NOT EXISTS idx_chunks_doc ON chunks(doc_id);
CREATE INDEX IF NOT EXISTS idx_chunks_section ON chunks(doc_id, section_path);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON code_symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_qualified ON code_symbols(qualified_name);
CREATE INDEX IF NOT EXISTS idx_symbols_repo ON code_symbols(repo_name);
CREATE INDEX IF NOT EXISTS idx_symbols_kind ON code_symbols(kind);
CREATE INDEX IF NOT EXISTS idx_symbols_receiver ON code_symbols(receiver);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
