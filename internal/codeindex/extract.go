// ABOUTME: Renders indexed symbols as code snippets at a requested detail mode
// ABOUTME: Reads line spans from the source file instead of re-parsing
package codeindex

import (
	"fmt"
	"os"
	"strings"

	"github.com/quarry-labs/quarry/internal/models"
)

// renderSnippet shapes a symbol's source per detail mode. methods is only
// consulted for methods_list and outline on type symbols.
func renderSnippet(sym models.SymbolRecord, mode models.DetailMode, methods []models.SymbolRecord) (*models.CodeSnippet, error) {
	lines, err := sourceLines(sym)
	if err != nil {
		return nil, err
	}

	snippet := &models.CodeSnippet{
		Name:      sym.QualifiedName,
		Kind:      sym.Kind,
		FilePath:  sym.FilePath,
		StartLine: sym.Line,
		EndLine:   sym.EndLine,
		Mode:      mode,
		Language:  "go",
		Doc:       sym.Doc,
	}

	switch mode {
	case models.DetailFull:
		snippet.Code = strings.Join(lines, "\n")

	case models.DetailMethodsList:
		if sym.Kind != models.SymbolType {
			snippet.Code = signatureOf(lines)
			break
		}
		parts := []string{signatureOf(lines), ""}
		for _, m := range methods {
			parts = append(parts, "- "+m.Name)
			snippet.Methods = append(snippet.Methods, m.Name)
		}
		snippet.Code = strings.Join(parts, "\n")

	case models.DetailOutline:
		if sym.Kind != models.SymbolType {
			snippet.Code = strings.Join(lines, "\n")
			break
		}
		parts := []string{strings.Join(lines, "\n"), ""}
		for _, m := range methods {
			sig, err := methodSignature(m)
			if err != nil {
				return nil, err
			}
			parts = append(parts, sig+" ... }")
			snippet.Methods = append(snippet.Methods, m.Name)
		}
		snippet.Code = strings.Join(parts, "\n")

	default: // signature
		snippet.Code = signatureOf(lines)
	}

	return snippet, nil
}

// signatureOf keeps declaration lines through the opening brace, so
// multi-line parameter lists stay intact while bodies are dropped.
func signatureOf(lines []string) string {
	var out []string
	for _, line := range lines {
		if idx := strings.Index(line, "{"); idx >= 0 {
			out = append(out, strings.TrimRight(line[:idx+1], " \t"))
			return strings.Join(out, "\n")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func methodSignature(sym models.SymbolRecord) (string, error) {
	lines, err := sourceLines(sym)
	if err != nil {
		return "", err
	}
	return signatureOf(lines), nil
}

// sourceLines reads the symbol's recorded line span back from disk.
func sourceLines(sym models.SymbolRecord) ([]string, error) {
	data, err := os.ReadFile(sym.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source for %s: %w", sym.QualifiedName, err)
	}
	lines := strings.Split(string(data), "\n")

	if sym.Line < 1 || sym.Line > len(lines) {
		return nil, fmt.Errorf("symbol %s: line %d out of range for %s", sym.QualifiedName, sym.Line, sym.FilePath)
	}
	end := sym.EndLine
	if end < sym.Line {
		end = sym.Line
	}
	if end > len(lines) {
		end = len(lines)
	}
	return lines[sym.Line-1 : end], nil
}
