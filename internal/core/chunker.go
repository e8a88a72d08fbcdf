// ABOUTME: HierarchicalChunker combines structure parsing with bounded segmentation
// ABOUTME: Small sections stay whole, large ones split with their heading prepended
package core

import (
	"strings"

	"github.com/quarry-labs/quarry/internal/models"
)

// SectionChunk is one chunk of text with its position in the document
// outline, before document-level metadata is attached.
type SectionChunk struct {
	Text         string
	SectionPath  string
	SectionLevel int
}

// ChunkRequest describes one document to chunk along with the metadata
// every produced chunk should carry. PathPrefix holds directory components
// prepended to every section path so chunks from a doc tree stay
// distinguishable across files with similar headings.
type ChunkRequest struct {
	Content    string
	DocID      string
	Filename   string
	FileType   string
	Tags       []string
	PathPrefix []string
	Markdown   bool
}

// HierarchicalChunker produces retrieval-ready chunks that keep small
// sections intact and label every chunk with a readable section path.
type HierarchicalChunker struct {
	parser      *StructureParser
	frontmatter *FrontmatterParser
	segmenter   *TextSegmenter
	chunkSize   int
}

// NewHierarchicalChunker creates a chunker with the given segmentation
// bounds. Non-positive values fall back to the segmenter defaults.
func NewHierarchicalChunker(chunkSize, chunkOverlap int) *HierarchicalChunker {
	segmenter := NewTextSegmenter(chunkSize, chunkOverlap)
	return &HierarchicalChunker{
		parser:      NewStructureParser(),
		frontmatter: NewFrontmatterParser(),
		segmenter:   segmenter,
		chunkSize:   segmenter.ChunkSize(),
	}
}

// Chunk turns one document into indexed chunks carrying full metadata.
// Markdown documents lose their front matter first; a title field found
// there joins the section path unless it merely repeats the top heading.
func (c *HierarchicalChunker) Chunk(req ChunkRequest) []models.Chunk {
	content := req.Content
	fmTitle := ""
	if req.Markdown {
		fields, body := c.frontmatter.Parse(content)
		fmTitle = c.frontmatter.Title(fields)
		content = body
	}

	var raw []SectionChunk
	if req.Markdown {
		raw = c.chunkStructured(content, req.PathPrefix, fmTitle)
	} else {
		base := mergedSectionPath(req.PathPrefix, "", "")
		for _, piece := range c.segmenter.Split(content) {
			raw = append(raw, SectionChunk{Text: piece, SectionPath: base})
		}
	}

	chunks := make([]models.Chunk, 0, len(raw))
	for i, sc := range raw {
		chunks = append(chunks, models.Chunk{
			Text:         sc.Text,
			DocID:        req.DocID,
			ChunkIndex:   i,
			TotalChunks:  len(raw),
			SectionPath:  sc.SectionPath,
			SectionLevel: sc.SectionLevel,
			Filename:     req.Filename,
			FileType:     req.FileType,
			Tags:         req.Tags,
		})
	}
	return chunks
}

// ChunkMarkdown chunks markdown text using heading breadcrumbs alone,
// without front matter or filesystem context.
func (c *HierarchicalChunker) ChunkMarkdown(text string) []SectionChunk {
	return c.chunkStructured(text, nil, "")
}

func (c *HierarchicalChunker) chunkStructured(text string, prefix []string, fmTitle string) []SectionChunk {
	sections := c.parser.Parse(text)
	if len(sections) == 0 {
		return nil
	}

	// A single level-0 section means the document has no headings; plain
	// segmentation applies and the path comes from context alone.
	if sections[0].Level == 0 {
		base := mergedSectionPath(prefix, fmTitle, "")
		var out []SectionChunk
		for _, piece := range c.segmenter.Split(sections[0].Content) {
			out = append(out, SectionChunk{Text: piece, SectionPath: base})
		}
		return out
	}

	var out []SectionChunk
	for _, sec := range sections {
		for _, sc := range c.chunkSection(sec) {
			sc.SectionPath = mergedSectionPath(prefix, fmTitle, sc.SectionPath)
			out = append(out, sc)
		}
	}
	return out
}

// chunkSection emits one chunk when heading plus body fit within the
// chunk size, otherwise splits the body and prepends the heading to each
// piece so every chunk stays self-describing.
func (c *HierarchicalChunker) chunkSection(sec *models.DocumentSection) []SectionChunk {
	header := strings.Repeat("#", sec.Level) + " " + sec.Title
	full := header + "\n\n" + sec.Content

	if len(full) <= c.chunkSize {
		return []SectionChunk{{
			Text:         strings.TrimSpace(full),
			SectionPath:  sec.Breadcrumb,
			SectionLevel: sec.Level,
		}}
	}
	return c.splitLargeSection(header, sec.Content, sec.Breadcrumb, sec.Level)
}

func (c *HierarchicalChunker) splitLargeSection(header, content, breadcrumb string, level int) []SectionChunk {
	headerWithSpacing := header + "\n\n"

	// A heading longer than the whole chunk budget leaves no room for
	// content, so the pieces go out bare.
	if c.chunkSize-len(headerWithSpacing) <= 0 {
		var out []SectionChunk
		for _, piece := range c.segmenter.Split(content) {
			out = append(out, SectionChunk{Text: piece, SectionPath: breadcrumb, SectionLevel: level})
		}
		return out
	}

	var out []SectionChunk
	for _, piece := range c.segmenter.Split(content) {
		out = append(out, SectionChunk{
			Text:         strings.TrimSpace(headerWithSpacing + piece),
			SectionPath:  breadcrumb,
			SectionLevel: level,
		})
	}
	return out
}

// mergedSectionPath joins filesystem prefix, front matter title, and
// heading breadcrumb into one path. The title is dropped when it repeats
// the breadcrumb's first segment, and an empty merge falls back to the
// root label.
func mergedSectionPath(prefix []string, fmTitle, breadcrumb string) string {
	parts := make([]string, 0, len(prefix)+2)
	for _, p := range prefix {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if fmTitle != "" {
		first := breadcrumb
		if idx := strings.Index(breadcrumb, BreadcrumbSeparator); idx >= 0 {
			first = breadcrumb[:idx]
		}
		if !strings.EqualFold(fmTitle, first) {
			parts = append(parts, fmTitle)
		}
	}
	if breadcrumb != "" {
		parts = append(parts, breadcrumb)
	}
	if len(parts) == 0 {
		return RootSectionTitle
	}
	return strings.Join(parts, BreadcrumbSeparator)
}
