// ABOUTME: Chunk is the unit of semantic retrieval stored with its embedding
// ABOUTME: Section path merges filesystem prefix, front-matter title, and heading breadcrumb
package models

// Chunk is one bounded span of document text with structural metadata.
// ChunkIndex is contiguous 0..TotalChunks-1 within one chunking pass and
// SectionPath is never empty (a placeholder root label stands in when a
// document has no headings).
type Chunk struct {
	Text         string   `json:"text"`
	DocID        string   `json:"doc_id"`
	ChunkIndex   int      `json:"chunk_index"`
	TotalChunks  int      `json:"total_chunks"`
	SectionPath  string   `json:"section_path"`
	SectionLevel int      `json:"section_level"`
	Filename     string   `json:"filename,omitempty"`
	FileType     string   `json:"file_type,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// ScoredChunk is a chunk returned from vector search with its similarity
type ScoredChunk struct {
	Chunk
	Score float64 `json:"score"`
}

// DocumentInfo summarizes one stored document
type DocumentInfo struct {
	DocID     string   `json:"doc_id"`
	Filename  string   `json:"filename"`
	FileType  string   `json:"file_type"`
	Tags      []string `json:"tags"`
	NumChunks int      `json:"num_chunks"`
}

// SectionInfo summarizes one section of a stored document
type SectionInfo struct {
	SectionPath  string `json:"section_path"`
	SectionLevel int    `json:"section_level"`
	ChunkCount   int    `json:"chunk_count"`
}
