// ABOUTME: Document identity and file-type helpers shared by ingestion paths
// ABOUTME: Doc IDs hash filename plus content so re-adding identical files is detectable
package core

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// supportedExtensions lists the file types the ingestion path accepts.
var supportedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// IsSupportedFile reports whether the file extension is ingestible.
func IsSupportedFile(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// DocID derives a stable document identifier from filename and content.
// The same file contents under the same name always map to the same ID.
func DocID(filename, content string) string {
	sum := sha256.Sum256([]byte(filename + ":" + content))
	return hex.EncodeToString(sum[:])[:16]
}

// FileTypeOf reports the stored type label for a file name.
func FileTypeOf(name string) string {
	if strings.ToLower(filepath.Ext(name)) == ".txt" {
		return "text"
	}
	return "markdown"
}

// IsMarkdownFile reports whether the file should get structure-aware chunking.
func IsMarkdownFile(name string) bool {
	return FileTypeOf(name) == "markdown"
}

// PathPrefixOf splits the directory part of a relative path into section
// path components. "docs/concepts/assets.md" yields ["docs", "concepts"].
func PathPrefixOf(relPath string) []string {
	dir := filepath.ToSlash(filepath.Dir(relPath))
	if dir == "." || dir == "/" || dir == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(dir, "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	return parts
}
