// ABOUTME: Tests for TextSegmenter boundary selection and forward progress
// ABOUTME: Covers sentence cuts, word cuts, overlap, and pathological inputs
package core

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_Empty(t *testing.T) {
	s := NewTextSegmenter(100, 20)
	if chunks := s.Split(""); chunks != nil {
		t.Errorf("Split(\"\") = %v, want nil", chunks)
	}
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	s := NewTextSegmenter(100, 20)

	tests := []struct {
		name string
		text string
	}{
		{"plain sentence", "This fits in one chunk."},
		{"exactly chunk size", strings.Repeat("x", 100)},
		{"leading and trailing space kept", "  padded text  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := s.Split(tt.text)
			if len(chunks) != 1 {
				t.Fatalf("Split() = %d chunks, want 1", len(chunks))
			}
			if chunks[0] != tt.text {
				t.Errorf("Split() = %q, want unmodified %q", chunks[0], tt.text)
			}
		})
	}
}

func TestSplit_PrefersSentenceBoundary(t *testing.T) {
	s := NewTextSegmenter(50, 0)

	text := "First sentence here. Second sentence follows. Third sentence is the one that overflows the window."
	chunks := s.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("Split() = %d chunks, want at least 2", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], ".") {
		t.Errorf("First chunk should end at a sentence boundary, got %q", chunks[0])
	}
}

func TestSplit_FallsBackToWordBoundary(t *testing.T) {
	s := NewTextSegmenter(40, 0)

	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}
	text := strings.Repeat(strings.Join(words, " ")+" ", 3)
	vocab := make(map[string]bool)
	for _, w := range words {
		vocab[w] = true
	}

	for i, chunk := range s.Split(text) {
		for _, field := range strings.Fields(chunk) {
			if !vocab[field] {
				t.Errorf("chunk %d contains split word %q in %q", i, field, chunk)
			}
		}
	}
}

func TestSplit_MaxChunkLength(t *testing.T) {
	s := NewTextSegmenter(80, 16)

	text := strings.Repeat("Some sentences vary in length. Short one. A considerably longer sentence with more words in it. ", 5)
	for i, chunk := range s.Split(text) {
		if len(chunk) > 80 {
			t.Errorf("chunk %d length = %d, want <= 80", i, len(chunk))
		}
	}
}

func TestSplit_OverlapRepeatsContent(t *testing.T) {
	s := NewTextSegmenter(60, 20)

	text := strings.Repeat("The quick brown fox jumps over the lazy dog again. ", 4)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("Split() = %d chunks, want at least 2", len(chunks))
	}

	// Every chunk is a contiguous span of the input.
	for i, chunk := range chunks {
		if !strings.Contains(text, chunk) {
			t.Errorf("chunk %d is not a substring of the input: %q", i, chunk)
		}
	}
}

func TestSplit_LosslessWithoutOverlap(t *testing.T) {
	s := NewTextSegmenter(50, 0)

	text := strings.Repeat("Alpha beta gamma delta. Epsilon zeta eta theta. ", 6)
	chunks := s.Split(text)

	joined := strings.Join(chunks, " ")
	got := strings.Join(strings.Fields(joined), " ")
	want := strings.Join(strings.Fields(text), " ")
	if got != want {
		t.Errorf("reassembled words = %q, want %q", got, want)
	}
}

func TestSplit_ForwardProgressWhenOverlapTooLarge(t *testing.T) {
	tests := []struct {
		name    string
		overlap int
	}{
		{"overlap equals size", 100},
		{"overlap exceeds size", 250},
	}

	text := strings.Repeat("a", 5000)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTextSegmenter(100, tt.overlap)
			chunks := s.Split(text)

			if len(chunks) != 50 {
				t.Errorf("Split() = %d chunks, want 50", len(chunks))
			}
			total := 0
			for i, chunk := range chunks {
				if len(chunk) > 100 {
					t.Errorf("chunk %d length = %d, want <= 100", i, len(chunk))
				}
				total += len(chunk)
			}
			if total != len(text) {
				t.Errorf("total chunk bytes = %d, want %d", total, len(text))
			}
		})
	}
}

func TestSplit_NeverCutsMidRune(t *testing.T) {
	s := NewTextSegmenter(100, 10)

	text := strings.Repeat("世界和平万岁", 200)
	chunks := s.Split(text)
	if len(chunks) == 0 {
		t.Fatal("Split() returned no chunks")
	}

	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}
}

func TestNewTextSegmenter_Defaults(t *testing.T) {
	s := NewTextSegmenter(0, -1)
	if s.ChunkSize() != DefaultChunkSize {
		t.Errorf("ChunkSize() = %d, want %d", s.ChunkSize(), DefaultChunkSize)
	}
}
