// ABOUTME: Tests for front matter fence parsing and title selection
// ABOUTME: Covers quoted values, priority order, and malformed fences
package core

import "testing"

func TestFrontmatter_Parse(t *testing.T) {
	p := NewFrontmatterParser()

	text := "---\ntitle: Quickstart\ntags: docs, intro\n---\n# Heading\n\nBody text.\n"
	fields, body := p.Parse(text)

	if fields == nil {
		t.Fatal("Parse() fields = nil, want parsed map")
	}
	if fields["title"] != "Quickstart" {
		t.Errorf("title = %q, want %q", fields["title"], "Quickstart")
	}
	if fields["tags"] != "docs, intro" {
		t.Errorf("tags = %q, want %q", fields["tags"], "docs, intro")
	}
	if body != "# Heading\n\nBody text.\n" {
		t.Errorf("body = %q, want document after the fence", body)
	}
}

func TestFrontmatter_NoFence(t *testing.T) {
	p := NewFrontmatterParser()

	text := "# Heading\n\nNo front matter here.\n"
	fields, body := p.Parse(text)

	if fields != nil {
		t.Errorf("fields = %v, want nil", fields)
	}
	if body != text {
		t.Errorf("body = %q, want unmodified input", body)
	}
}

func TestFrontmatter_FenceNotAtStart(t *testing.T) {
	p := NewFrontmatterParser()

	text := "\n---\ntitle: Late\n---\nBody\n"
	fields, body := p.Parse(text)

	if fields != nil {
		t.Errorf("fields = %v, want nil for fence after start", fields)
	}
	if body != text {
		t.Errorf("body = %q, want unmodified input", body)
	}
}

func TestFrontmatter_UnterminatedFence(t *testing.T) {
	p := NewFrontmatterParser()

	text := "---\ntitle: Broken\nno closing fence"
	fields, body := p.Parse(text)

	if fields != nil {
		t.Errorf("fields = %v, want nil for unterminated fence", fields)
	}
	if body != text {
		t.Errorf("body = %q, want unmodified input", body)
	}
}

func TestFrontmatter_QuotedValues(t *testing.T) {
	p := NewFrontmatterParser()

	tests := []struct {
		name string
		line string
		want string
	}{
		{"double quotes", `title: "Hello World"`, "Hello World"},
		{"single quotes", "title: 'Hi There'", "Hi There"},
		{"unquoted", "title: Plain", "Plain"},
		{"colon in value", "title: a: b", "a: b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, _ := p.Parse("---\n" + tt.line + "\n---\nbody")
			if fields["title"] != tt.want {
				t.Errorf("title = %q, want %q", fields["title"], tt.want)
			}
		})
	}
}

func TestFrontmatter_SkipsLinesWithoutColon(t *testing.T) {
	p := NewFrontmatterParser()

	fields, _ := p.Parse("---\njust a line\ntitle: Kept\n---\nbody")
	if len(fields) != 1 {
		t.Errorf("fields = %v, want only the title entry", fields)
	}
	if fields["title"] != "Kept" {
		t.Errorf("title = %q, want %q", fields["title"], "Kept")
	}
}

func TestFrontmatter_TitlePriority(t *testing.T) {
	p := NewFrontmatterParser()

	tests := []struct {
		name   string
		fields map[string]string
		want   string
	}{
		{
			name:   "title beats sidebar_label",
			fields: map[string]string{"title": "A", "sidebar_label": "B"},
			want:   "A",
		},
		{
			name:   "sidebar_label beats name",
			fields: map[string]string{"sidebar_label": "B", "name": "C"},
			want:   "B",
		},
		{
			name:   "name beats heading",
			fields: map[string]string{"name": "C", "heading": "D"},
			want:   "C",
		},
		{
			name:   "heading alone",
			fields: map[string]string{"heading": "D"},
			want:   "D",
		},
		{
			name:   "no candidates",
			fields: map[string]string{"author": "someone"},
			want:   "",
		},
		{
			name:   "nil fields",
			fields: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Title(tt.fields); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}
