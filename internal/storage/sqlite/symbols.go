// ABOUTME: SymbolStore persists indexed code symbols for name-based lookup
// ABOUTME: Supports exact, prefix, and contains matching over names and qualified names
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/quarry-labs/quarry/internal/models"
)

// SymbolStore handles code symbol persistence.
type SymbolStore struct {
	db *DB
}

// NewSymbolStore creates a symbol store backed by the given database.
func NewSymbolStore(db *DB) *SymbolStore {
	return &SymbolStore{db: db}
}

// SaveSymbols upserts a batch of symbols keyed by qualified name.
func (s *SymbolStore) SaveSymbols(symbols []models.SymbolRecord) error {
	for _, sym := range symbols {
		exported := 0
		if sym.Exported {
			exported = 1
		}
		_, err := s.db.Exec(
			`INSERT INTO code_symbols (name, qualified_name, kind, file_path, line, end_line, repo_name, relative_path, doc, receiver, exported)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(qualified_name) DO UPDATE SET
			   name = excluded.name,
			   kind = excluded.kind,
			   file_path = excluded.file_path,
			   line = excluded.line,
			   end_line = excluded.end_line,
			   repo_name = excluded.repo_name,
			   relative_path = excluded.relative_path,
			   doc = excluded.doc,
			   receiver = excluded.receiver,
			   exported = excluded.exported`,
			sym.Name, sym.QualifiedName, string(sym.Kind), sym.FilePath,
			sym.Line, sym.EndLine, sym.Repo, sym.RelativePath,
			sym.Doc, sym.Receiver, exported,
		)
		if err != nil {
			return fmt.Errorf("failed to save symbol %s: %w", sym.QualifiedName, err)
		}
	}
	return nil
}

const symbolColumns = "name, qualified_name, kind, file_path, line, end_line, repo_name, relative_path, doc, receiver, exported"

func scanSymbol(scanner interface{ Scan(...any) error }) (models.SymbolRecord, error) {
	var sym models.SymbolRecord
	var kind string
	var doc, receiver sql.NullString
	var exported int
	err := scanner.Scan(
		&sym.Name, &sym.QualifiedName, &kind, &sym.FilePath,
		&sym.Line, &sym.EndLine, &sym.Repo, &sym.RelativePath,
		&doc, &receiver, &exported,
	)
	if err != nil {
		return models.SymbolRecord{}, err
	}
	sym.Kind = models.SymbolKind(kind)
	sym.Doc = doc.String
	sym.Receiver = receiver.String
	sym.Exported = exported != 0
	return sym, nil
}

// Search finds symbols matching the name under the given match mode.
// An empty repo searches all repos.
func (s *SymbolStore) Search(name string, match models.MatchMode, repo string, limit int) ([]models.SymbolRecord, error) {
	var cond string
	var args []any
	switch match {
	case models.MatchPrefix:
		cond = "(name LIKE ? OR qualified_name LIKE ?)"
		args = append(args, name+"%", name+"%")
	case models.MatchContains:
		cond = "(name LIKE ? OR qualified_name LIKE ?)"
		args = append(args, "%"+name+"%", "%"+name+"%")
	default:
		cond = "(name = ? OR qualified_name = ?)"
		args = append(args, name, name)
	}
	query := "SELECT " + symbolColumns + " FROM code_symbols WHERE " + cond
	if repo != "" {
		query += " AND repo_name = ?"
		args = append(args, repo)
	}
	query += " ORDER BY exported DESC, name ASC, qualified_name ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search symbols: %w", err)
	}
	defer rows.Close()

	var symbols []models.SymbolRecord
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate symbols: %w", err)
	}
	return symbols, nil
}

// Get returns the best match for a name, preferring an exact qualified-name
// hit over a bare name hit. Returns nil when nothing matches.
func (s *SymbolStore) Get(name string, repo string) (*models.SymbolRecord, error) {
	query := "SELECT " + symbolColumns + " FROM code_symbols WHERE qualified_name = ?"
	args := []any{name}
	if repo != "" {
		query += " AND repo_name = ?"
		args = append(args, repo)
	}
	row := s.db.QueryRow(query, args...)
	sym, err := scanSymbol(row)
	if err == nil {
		return &sym, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get symbol %s: %w", name, err)
	}

	// Fall back to bare name, exported declarations first.
	query = "SELECT " + symbolColumns + " FROM code_symbols WHERE name = ?"
	args = []any{name}
	if repo != "" {
		query += " AND repo_name = ?"
		args = append(args, repo)
	}
	query += " ORDER BY exported DESC, qualified_name ASC LIMIT 1"
	row = s.db.QueryRow(query, args...)
	sym, err = scanSymbol(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get symbol %s: %w", name, err)
	}
	return &sym, nil
}

// MethodsOf returns all methods declared on the named receiver type.
func (s *SymbolStore) MethodsOf(typeName string, repo string) ([]models.SymbolRecord, error) {
	query := "SELECT " + symbolColumns + " FROM code_symbols WHERE kind = ? AND receiver = ?"
	args := []any{string(models.SymbolMethod), typeName}
	if repo != "" {
		query += " AND repo_name = ?"
		args = append(args, repo)
	}
	query += " ORDER BY name ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list methods of %s: %w", typeName, err)
	}
	defer rows.Close()

	var symbols []models.SymbolRecord
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan method: %w", err)
		}
		symbols = append(symbols, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate methods: %w", err)
	}
	return symbols, nil
}

// DeleteRepo removes every symbol indexed under a repo name.
// Returns the number of symbols removed.
func (s *SymbolStore) DeleteRepo(repo string) (int64, error) {
	result, err := s.db.Exec("DELETE FROM code_symbols WHERE repo_name = ?", repo)
	if err != nil {
		return 0, fmt.Errorf("failed to delete repo %s: %w", repo, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted symbols: %w", err)
	}
	return n, nil
}

// ListRepos returns the distinct repo names with their symbol counts.
func (s *SymbolStore) ListRepos() (map[string]int, error) {
	rows, err := s.db.Query("SELECT repo_name, COUNT(*) FROM code_symbols GROUP BY repo_name")
	if err != nil {
		return nil, fmt.Errorf("failed to list repos: %w", err)
	}
	defer rows.Close()

	repos := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("failed to scan repo: %w", err)
		}
		repos[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate repos: %w", err)
	}
	return repos, nil
}

// CountSymbols returns the total number of indexed symbols.
func (s *SymbolStore) CountSymbols() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM code_symbols").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count symbols: %w", err)
	}
	return count, nil
}
