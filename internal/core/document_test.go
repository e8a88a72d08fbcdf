// ABOUTME: Tests for document identity and file-type helpers
// ABOUTME: Doc IDs must be stable, hex, and sensitive to name and content
package core

import (
	"regexp"
	"testing"
)

func TestDocID(t *testing.T) {
	id := DocID("readme.md", "hello world")

	if len(id) != 16 {
		t.Errorf("DocID length = %d, want 16", len(id))
	}
	if !regexp.MustCompile(`^[0-9a-f]{16}$`).MatchString(id) {
		t.Errorf("DocID = %q, want lowercase hex", id)
	}

	if again := DocID("readme.md", "hello world"); again != id {
		t.Errorf("DocID not stable: %q vs %q", id, again)
	}
	if other := DocID("other.md", "hello world"); other == id {
		t.Error("DocID should change with filename")
	}
	if other := DocID("readme.md", "hello there"); other == id {
		t.Error("DocID should change with content")
	}
}

func TestIsSupportedFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"notes.md", true},
		{"notes.txt", true},
		{"NOTES.MD", true},
		{"image.png", false},
		{"script.py", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		if got := IsSupportedFile(tt.name); got != tt.want {
			t.Errorf("IsSupportedFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFileTypeOf(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"doc.md", "markdown"},
		{"doc.txt", "text"},
		{"DOC.TXT", "text"},
	}

	for _, tt := range tests {
		if got := FileTypeOf(tt.name); got != tt.want {
			t.Errorf("FileTypeOf(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPathPrefixOf(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"docs/concepts/assets.md", []string{"docs", "concepts"}},
		{"readme.md", nil},
		{"./guide.md", nil},
		{"a/b/c/d.txt", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		got := PathPrefixOf(tt.path)
		if len(got) != len(tt.want) {
			t.Errorf("PathPrefixOf(%q) = %v, want %v", tt.path, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("PathPrefixOf(%q)[%d] = %q, want %q", tt.path, i, got[i], tt.want[i])
			}
		}
	}
}
