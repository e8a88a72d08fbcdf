// ABOUTME: FrontmatterParser strips YAML front matter and pulls a display title
// ABOUTME: Parses flat key: value lines only, no nested YAML
package core

import (
	"regexp"
	"strings"
)

// frontmatterRe matches a leading --- fenced block at the very start of a
// document. The body capture is non-greedy so nested --- lines inside the
// document do not extend the block.
var frontmatterRe = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n`)

// titleKeys is the priority order for choosing a document title from
// front matter fields.
var titleKeys = []string{"title", "sidebar_label", "name", "heading"}

// FrontmatterParser extracts YAML front matter from document text.
type FrontmatterParser struct{}

// NewFrontmatterParser creates a front matter parser.
func NewFrontmatterParser() *FrontmatterParser {
	return &FrontmatterParser{}
}

// Parse splits text into front matter fields and the remaining body.
// Only flat "key: value" lines are read; values lose surrounding quotes.
// When no front matter fence is present, fields is nil and the body is
// the unmodified input.
func (p *FrontmatterParser) Parse(text string) (map[string]string, string) {
	loc := frontmatterRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil, text
	}

	block := text[loc[2]:loc[3]]
	body := text[loc[1]:]

	fields := make(map[string]string)
	for _, line := range strings.Split(block, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"`)
		value = strings.Trim(value, `'`)
		fields[key] = value
	}

	return fields, body
}

// Title picks the best available title field, or "" when none is set.
func (p *FrontmatterParser) Title(fields map[string]string) string {
	for _, key := range titleKeys {
		if fields[key] != "" {
			return fields[key]
		}
	}
	return ""
}
