// ABOUTME: StructureParser walks markdown headings into a section tree
// ABOUTME: Each section carries a breadcrumb of ancestor titles joined with " > "
package core

import (
	"regexp"
	"strings"

	"github.com/quarry-labs/quarry/internal/models"
)

// BreadcrumbSeparator joins ancestor titles into a section path.
const BreadcrumbSeparator = " > "

// RootSectionTitle labels documents that contain no headings at all.
const RootSectionTitle = "Document"

// headingRe matches ATX headings, tolerating trailing attribute blocks
// like {#custom-id} that some doc generators emit.
var headingRe = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+?)(?:\s*\{[^}]*\})?\s*$`)

// StructureParser turns markdown text into an ordered list of sections.
type StructureParser struct{}

// NewStructureParser creates a markdown structure parser.
func NewStructureParser() *StructureParser {
	return &StructureParser{}
}

// Parse splits text at its headings. Every section records its heading
// level, title, body content up to the next heading, and a breadcrumb of
// ancestor titles. Text without headings becomes a single level-0 section
// titled "Document". Empty input yields no sections.
func (p *StructureParser) Parse(text string) []*models.DocumentSection {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	matches := headingRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []*models.DocumentSection{{
			Level:      0,
			Title:      RootSectionTitle,
			Content:    strings.TrimSpace(text),
			Breadcrumb: RootSectionTitle,
		}}
	}

	sections := make([]*models.DocumentSection, 0, len(matches))
	var stack []*models.DocumentSection

	for i, m := range matches {
		level := m[3] - m[2]
		title := strings.TrimSpace(text[m[4]:m[5]])

		contentStart := m[1]
		contentEnd := len(text)
		if i+1 < len(matches) {
			contentEnd = matches[i+1][0]
		}
		content := strings.TrimSpace(text[contentStart:contentEnd])

		// Pop siblings and deeper levels so the stack holds ancestors only.
		for len(stack) > 0 && stack[len(stack)-1].Level >= level {
			stack = stack[:len(stack)-1]
		}

		titles := make([]string, 0, len(stack)+1)
		for _, ancestor := range stack {
			titles = append(titles, ancestor.Title)
		}
		titles = append(titles, title)

		section := &models.DocumentSection{
			Level:      level,
			Title:      title,
			Content:    content,
			Breadcrumb: strings.Join(titles, BreadcrumbSeparator),
		}
		if len(stack) > 0 {
			section.Parent = stack[len(stack)-1]
		}

		sections = append(sections, section)
		stack = append(stack, section)
	}

	return sections
}

// TOCEntry is one row of a document outline.
type TOCEntry struct {
	Level      int    `json:"level"`
	Title      string `json:"title"`
	Breadcrumb string `json:"breadcrumb"`
}

// Outline returns the heading hierarchy of text without section bodies.
func (p *StructureParser) Outline(text string) []TOCEntry {
	sections := p.Parse(text)
	if len(sections) == 0 {
		return nil
	}
	toc := make([]TOCEntry, 0, len(sections))
	for _, s := range sections {
		toc = append(toc, TOCEntry{Level: s.Level, Title: s.Title, Breadcrumb: s.Breadcrumb})
	}
	return toc
}
