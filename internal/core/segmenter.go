// ABOUTME: TextSegmenter splits raw text into bounded overlapping pieces
// ABOUTME: Prefers sentence boundaries, then word boundaries, never cuts mid-rune
package core

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultChunkSize is the default maximum chunk length in bytes
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the default repeated span between consecutive chunks
	DefaultChunkOverlap = 200
)

var sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)

// TextSegmenter splits text into overlapping chunks for retrieval.
type TextSegmenter struct {
	chunkSize    int
	chunkOverlap int
}

// NewTextSegmenter creates a segmenter with the given size and overlap.
// Non-positive values fall back to the defaults.
func NewTextSegmenter(chunkSize, chunkOverlap int) *TextSegmenter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	return &TextSegmenter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// ChunkSize returns the configured maximum chunk length.
func (s *TextSegmenter) ChunkSize() int {
	return s.chunkSize
}

// Split divides text into chunks of at most chunkSize bytes with
// chunkOverlap bytes repeated between consecutive chunks. Each cut prefers
// the last sentence ending inside the window, then the last space. Start
// offsets strictly increase, so the loop terminates even when the overlap
// is as large as the chunk size.
func (s *TextSegmenter) Split(text string) []string {
	if len(text) == 0 {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + s.chunkSize

		if end < len(text) {
			window := text[start:end]

			if endings := sentenceEndRe.FindAllStringIndex(window, -1); len(endings) > 0 {
				end = start + endings[len(endings)-1][1]
			} else if lastSpace := strings.LastIndexByte(window, ' '); lastSpace > 0 {
				end = start + lastSpace
			} else {
				// No boundary in the window; back off to a rune boundary.
				for end > start && !utf8.RuneStart(text[end]) {
					end--
				}
				if end == start {
					end = start + s.chunkSize
				}
			}
		} else {
			end = len(text)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - s.chunkOverlap
		if next <= start {
			next = end
		}
		// Overlap arithmetic can land inside a multi-byte rune; the skipped
		// bytes are already covered by the previous chunk.
		for next < len(text) && !utf8.RuneStart(text[next]) {
			next++
		}
		start = next
	}

	return chunks
}
