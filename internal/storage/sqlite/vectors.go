// ABOUTME: ChunkStore persists document chunks with their embedding vectors
// ABOUTME: Vectors are little-endian float64 BLOBs, similarity search runs in Go
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/quarry-labs/quarry/internal/models"
)

// ChunkStore handles chunk and vector persistence.
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a chunk store backed by the given database.
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// ChunkFilter narrows similarity search to a subset of chunks.
// Zero-value fields are ignored.
type ChunkFilter struct {
	DocID       string
	Tags        []string
	SectionPath string
}

// vectorToBlob converts a float64 slice to a byte slice for BLOB storage.
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a BLOB back to a float64 slice.
func blobToVector(blob []byte) []float64 {
	vector := make([]float64, len(blob)/8)
	for i := range vector {
		vector[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return vector
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 for mismatched lengths or zero vectors.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tags: %w", err)
	}
	return string(data), nil
}

func decodeTags(text string) []string {
	if text == "" || text == "[]" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(text), &tags); err != nil {
		return nil
	}
	return tags
}

// SaveChunk stores a chunk with its embedding vector and returns the chunk ID.
func (s *ChunkStore) SaveChunk(chunk models.Chunk, vector []float64) (string, error) {
	id := uuid.New().String()
	tags, err := encodeTags(chunk.Tags)
	if err != nil {
		return "", err
	}
	_, err = s.db.Exec(
		`INSERT INTO chunks (id, doc_id, chunk_index, total_chunks, text, section_path, section_level, filename, file_type, tags, vector)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, chunk.DocID, chunk.ChunkIndex, chunk.TotalChunks, chunk.Text,
		chunk.SectionPath, chunk.SectionLevel, chunk.Filename, chunk.FileType,
		tags, vectorToBlob(vector),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save chunk: %w", err)
	}
	return id, nil
}

func scanChunk(rows *sql.Rows) (models.Chunk, []float64, error) {
	var chunk models.Chunk
	var filename, fileType, tags sql.NullString
	var blob []byte
	err := rows.Scan(
		&chunk.DocID, &chunk.ChunkIndex, &chunk.TotalChunks, &chunk.Text,
		&chunk.SectionPath, &chunk.SectionLevel, &filename, &fileType, &tags, &blob,
	)
	if err != nil {
		return models.Chunk{}, nil, err
	}
	chunk.Filename = filename.String
	chunk.FileType = fileType.String
	chunk.Tags = decodeTags(tags.String)
	return chunk, blobToVector(blob), nil
}

const chunkColumns = "doc_id, chunk_index, total_chunks, text, section_path, section_level, filename, file_type, tags, vector"

func (f ChunkFilter) whereClause() (string, []any) {
	var conds []string
	var args []any
	if f.DocID != "" {
		conds = append(conds, "doc_id = ?")
		args = append(args, f.DocID)
	}
	if f.SectionPath != "" {
		conds = append(conds, "LOWER(section_path) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.SectionPath)+"%")
	}
	if len(f.Tags) > 0 {
		// Any-match: chunk qualifies when it carries at least one requested tag.
		tagConds := make([]string, len(f.Tags))
		for i, tag := range f.Tags {
			tagConds[i] = "tags LIKE ?"
			args = append(args, `%"`+tag+`"%`)
		}
		conds = append(conds, "("+strings.Join(tagConds, " OR ")+")")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// SearchSimilar finds the topK chunks most similar to the query vector,
// restricted by the filter. Results are ordered by descending similarity.
func (s *ChunkStore) SearchSimilar(queryVector []float64, topK int, filter ChunkFilter) ([]models.ScoredChunk, error) {
	where, args := filter.whereClause()
	rows, err := s.db.Query("SELECT "+chunkColumns+" FROM chunks"+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var scored []models.ScoredChunk
	for rows.Next() {
		chunk, vector, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		scored = append(scored, models.ScoredChunk{
			Chunk: chunk,
			Score: CosineSimilarity(queryVector, vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chunks: %w", err)
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// DeleteDocument removes all chunks belonging to a document.
// Returns the number of chunks removed.
func (s *ChunkStore) DeleteDocument(docID string) (int64, error) {
	result, err := s.db.Exec("DELETE FROM chunks WHERE doc_id = ?", docID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete document %s: %w", docID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted chunks: %w", err)
	}
	return n, nil
}

// HasDocument reports whether any chunks exist for the given document.
func (s *ChunkStore) HasDocument(docID string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM chunks WHERE doc_id = ?", docID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check document %s: %w", docID, err)
	}
	return count > 0, nil
}

// ListDocuments returns summary info for every stored document.
func (s *ChunkStore) ListDocuments() ([]models.DocumentInfo, error) {
	rows, err := s.db.Query(
		`SELECT doc_id, MAX(filename), MAX(file_type), MAX(tags), COUNT(*)
		 FROM chunks GROUP BY doc_id ORDER BY MAX(created_at) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.DocumentInfo
	for rows.Next() {
		var doc models.DocumentInfo
		var filename, fileType, tags sql.NullString
		if err := rows.Scan(&doc.DocID, &filename, &fileType, &tags, &doc.NumChunks); err != nil {
			return nil, fmt.Errorf("failed to scan document info: %w", err)
		}
		doc.Filename = filename.String
		doc.FileType = fileType.String
		doc.Tags = decodeTags(tags.String)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

// ListSections returns the distinct sections of a document in chunk order.
func (s *ChunkStore) ListSections(docID string) ([]models.SectionInfo, error) {
	rows, err := s.db.Query(
		`SELECT section_path, MAX(section_level), COUNT(*)
		 FROM chunks WHERE doc_id = ?
		 GROUP BY section_path ORDER BY MIN(chunk_index)`,
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	var sections []models.SectionInfo
	for rows.Next() {
		var sec models.SectionInfo
		if err := rows.Scan(&sec.SectionPath, &sec.SectionLevel, &sec.ChunkCount); err != nil {
			return nil, fmt.Errorf("failed to scan section info: %w", err)
		}
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sections: %w", err)
	}
	return sections, nil
}

// AllTags returns every distinct tag across all chunks, sorted.
func (s *ChunkStore) AllTags() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT tags FROM chunks")
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var text sql.NullString
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan tags: %w", err)
		}
		for _, tag := range decodeTags(text.String) {
			seen[tag] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// CountChunks returns the total number of stored chunks.
func (s *ChunkStore) CountChunks() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// CountDocuments returns the number of distinct documents.
func (s *ChunkStore) CountDocuments() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(DISTINCT doc_id) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}
