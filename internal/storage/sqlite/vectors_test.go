// ABOUTME: Tests for chunk persistence and cosine-similarity search
// ABOUTME: Covers filters, document listing, sections, tags, and deletion
package sqlite

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/quarry-labs/quarry/internal/models"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 0, 0}, []float64{1, 0, 0}, 1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"mismatched lengths", []float64{1, 2}, []float64{1, 2, 3}, 0.0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0.0},
		{"empty", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVectorBlobRoundTrip(t *testing.T) {
	vector := []float64{0.1, -2.5, 3.14159, 0, 1e-10}
	got := blobToVector(vectorToBlob(vector))
	if !reflect.DeepEqual(got, vector) {
		t.Errorf("round trip = %v, want %v", got, vector)
	}
}

func saveTestChunk(t *testing.T, store *ChunkStore, chunk models.Chunk, vector []float64) {
	t.Helper()
	if _, err := store.SaveChunk(chunk, vector); err != nil {
		t.Fatalf("SaveChunk() error = %v", err)
	}
}

func TestSearchSimilarOrdering(t *testing.T) {
	db := setupTestDB(t)
	store := NewChunkStore(db)

	saveTestChunk(t, store, models.Chunk{DocID: "d1", Text: "far", SectionPath: "A"}, []float64{0, 1, 0})
	saveTestChunk(t, store, models.Chunk{DocID: "d1", Text: "close", SectionPath: "B"}, []float64{0.9, 0.1, 0})
	saveTestChunk(t, store, models.Chunk{DocID: "d1", Text: "exact", SectionPath: "C"}, []float64{1, 0, 0})

	results, err := store.SearchSimilar([]float64{1, 0, 0}, 2, ChunkFilter{})
	if err != nil {
		t.Fatalf("SearchSimilar() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("SearchSimilar() returned %d results, want 2", len(results))
	}
	if results[0].Text != "exact" {
		t.Errorf("top result = %q, want %q", results[0].Text, "exact")
	}
	if results[1].Text != "close" {
		t.Errorf("second result = %q, want %q", results[1].Text, "close")
	}
	if results[0].Score < results[1].Score {
		t.Errorf("scores not descending: %v then %v", results[0].Score, results[1].Score)
	}
}

func TestSearchSimilarFilters(t *testing.T) {
	db := setupTestDB(t)
	store := NewChunkStore(db)

	vec := []float64{1, 0}
	saveTestChunk(t, store, models.Chunk{DocID: "alpha", Text: "a1", SectionPath: "Guide › Install", Tags: []string{"go", "setup"}}, vec)
	saveTestChunk(t, store, models.Chunk{DocID: "alpha", Text: "a2", SectionPath: "Guide › Usage", Tags: []string{"go"}}, vec)
	saveTestChunk(t, store, models.Chunk{DocID: "beta", Text: "b1", SectionPath: "Reference › API", Tags: []string{"python"}}, vec)

	t.Run("by doc id", func(t *testing.T) {
		results, err := store.SearchSimilar(vec, 10, ChunkFilter{DocID: "beta"})
		if err != nil {
			t.Fatalf("SearchSimilar() error = %v", err)
		}
		if len(results) != 1 || results[0].Text != "b1" {
			t.Errorf("DocID filter returned %d results", len(results))
		}
	})

	t.Run("by tag any-match", func(t *testing.T) {
		results, err := store.SearchSimilar(vec, 10, ChunkFilter{Tags: []string{"setup", "python"}})
		if err != nil {
			t.Fatalf("SearchSimilar() error = %v", err)
		}
		if len(results) != 2 {
			t.Errorf("tag filter returned %d results, want 2", len(results))
		}
	})

	t.Run("by section substring case-insensitive", func(t *testing.T) {
		results, err := store.SearchSimilar(vec, 10, ChunkFilter{SectionPath: "guide"})
		if err != nil {
			t.Fatalf("SearchSimilar() error = %v", err)
		}
		if len(results) != 2 {
			t.Errorf("section filter returned %d results, want 2", len(results))
		}
	})

	t.Run("combined", func(t *testing.T) {
		results, err := store.SearchSimilar(vec, 10, ChunkFilter{DocID: "alpha", SectionPath: "usage"})
		if err != nil {
			t.Fatalf("SearchSimilar() error = %v", err)
		}
		if len(results) != 1 || results[0].Text != "a2" {
			t.Errorf("combined filter returned %d results", len(results))
		}
	})
}

func TestSearchSimilarEmptyStore(t *testing.T) {
	db := setupTestDB(t)
	store := NewChunkStore(db)

	results, err := store.SearchSimilar([]float64{1, 0}, 5, ChunkFilter{})
	if err != nil {
		t.Fatalf("SearchSimilar() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty store returned %d results", len(results))
	}
}

func TestDeleteDocument(t *testing.T) {
	db := setupTestDB(t)
	store := NewChunkStore(db)

	vec := []float64{1}
	saveTestChunk(t, store, models.Chunk{DocID: "keep", Text: "k"}, vec)
	saveTestChunk(t, store, models.Chunk{DocID: "drop", Text: "d1"}, vec)
	saveTestChunk(t, store, models.Chunk{DocID: "drop", Text: "d2"}, vec)

	n, err := store.DeleteDocument("drop")
	if err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteDocument() removed %d chunks, want 2", n)
	}

	has, err := store.HasDocument("drop")
	if err != nil {
		t.Fatalf("HasDocument() error = %v", err)
	}
	if has {
		t.Error("HasDocument() still true after delete")
	}

	has, err = store.HasDocument("keep")
	if err != nil {
		t.Fatalf("HasDocument() error = %v", err)
	}
	if !has {
		t.Error("HasDocument() false for surviving document")
	}
}

func TestListDocuments(t *testing.T) {
	db := setupTestDB(t)
	store := NewChunkStore(db)

	vec := []float64{1}
	for i := 0; i < 3; i++ {
		saveTestChunk(t, store, models.Chunk{
			DocID: "doc1", ChunkIndex: i, TotalChunks: 3, Text: fmt.Sprintf("c%d", i),
			Filename: "guide.md", FileType: "markdown", Tags: []string{"docs"},
		}, vec)
	}
	saveTestChunk(t, store, models.Chunk{DocID: "doc2", TotalChunks: 1, Text: "x", Filename: "api.md", FileType: "markdown"}, vec)

	docs, err := store.ListDocuments()
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("ListDocuments() returned %d docs, want 2", len(docs))
	}

	byID := make(map[string]models.DocumentInfo)
	for _, d := range docs {
		byID[d.DocID] = d
	}
	if got := byID["doc1"].NumChunks; got != 3 {
		t.Errorf("doc1 NumChunks = %d, want 3", got)
	}
	if got := byID["doc1"].Filename; got != "guide.md" {
		t.Errorf("doc1 Filename = %q, want %q", got, "guide.md")
	}
	if got := byID["doc1"].Tags; !reflect.DeepEqual(got, []string{"docs"}) {
		t.Errorf("doc1 Tags = %v, want [docs]", got)
	}
}

func TestListSections(t *testing.T) {
	db := setupTestDB(t)
	store := NewChunkStore(db)

	vec := []float64{1}
	saveTestChunk(t, store, models.Chunk{DocID: "d", ChunkIndex: 0, Text: "a", SectionPath: "Intro", SectionLevel: 1}, vec)
	saveTestChunk(t, store, models.Chunk{DocID: "d", ChunkIndex: 1, Text: "b", SectionPath: "Intro › Setup", SectionLevel: 2}, vec)
	saveTestChunk(t, store, models.Chunk{DocID: "d", ChunkIndex: 2, Text: "c", SectionPath: "Intro › Setup", SectionLevel: 2}, vec)

	sections, err := store.ListSections("d")
	if err != nil {
		t.Fatalf("ListSections() error = %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("ListSections() returned %d sections, want 2", len(sections))
	}
	if sections[0].SectionPath != "Intro" {
		t.Errorf("first section = %q, want %q", sections[0].SectionPath, "Intro")
	}
	if sections[1].ChunkCount != 2 {
		t.Errorf("second section ChunkCount = %d, want 2", sections[1].ChunkCount)
	}
}

func TestAllTags(t *testing.T) {
	db := setupTestDB(t)
	store := NewChunkStore(db)

	vec := []float64{1}
	saveTestChunk(t, store, models.Chunk{DocID: "a", Text: "x", Tags: []string{"go", "docs"}}, vec)
	saveTestChunk(t, store, models.Chunk{DocID: "b", Text: "y", Tags: []string{"docs", "api"}}, vec)
	saveTestChunk(t, store, models.Chunk{DocID: "c", Text: "z"}, vec)

	tags, err := store.AllTags()
	if err != nil {
		t.Fatalf("AllTags() error = %v", err)
	}
	want := []string{"api", "docs", "go"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("AllTags() = %v, want %v", tags, want)
	}
}

func TestChunkCounts(t *testing.T) {
	db := setupTestDB(t)
	store := NewChunkStore(db)

	vec := []float64{1}
	saveTestChunk(t, store, models.Chunk{DocID: "a", Text: "1"}, vec)
	saveTestChunk(t, store, models.Chunk{DocID: "a", Text: "2"}, vec)
	saveTestChunk(t, store, models.Chunk{DocID: "b", Text: "3"}, vec)

	chunks, err := store.CountChunks()
	if err != nil {
		t.Fatalf("CountChunks() error = %v", err)
	}
	if chunks != 3 {
		t.Errorf("CountChunks() = %d, want 3", chunks)
	}

	docs, err := store.CountDocuments()
	if err != nil {
		t.Fatalf("CountDocuments() error = %v", err)
	}
	if docs != 2 {
		t.Errorf("CountDocuments() = %d, want 2", docs)
	}
}
