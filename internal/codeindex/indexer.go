// ABOUTME: Indexer walks Go source trees and extracts top-level declarations
// ABOUTME: Methods get receiver-qualified names so dotted lookups resolve directly
package codeindex

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/quarry-labs/quarry/internal/models"
)

// Indexer extracts symbol records from Go sources for one repository.
type Indexer struct {
	repo string
}

// NewIndexer creates an indexer that stamps records with the given repo name.
func NewIndexer(repo string) *Indexer {
	return &Indexer{repo: repo}
}

// IndexDir walks root and returns symbols for every non-test Go file.
// Vendor, testdata, hidden, and underscore-prefixed directories are skipped.
func (ix *Indexer) IndexDir(root string) ([]models.SymbolRecord, error) {
	var symbols []models.SymbolRecord

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if name == "vendor" || name == "testdata" ||
				strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		fileSymbols, err := ix.IndexFile(root, path)
		if err != nil {
			return err
		}
		symbols = append(symbols, fileSymbols...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", root, err)
	}
	return symbols, nil
}

// IndexFile parses a single file and returns its top-level symbols.
func (ix *Indexer) IndexFile(root, path string) ([]models.SymbolRecord, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	var symbols []models.SymbolRecord
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			symbols = append(symbols, ix.funcSymbol(fset, path, rel, d))
		case *ast.GenDecl:
			symbols = append(symbols, ix.genSymbols(fset, path, rel, d)...)
		}
	}
	return symbols, nil
}

func (ix *Indexer) funcSymbol(fset *token.FileSet, path, rel string, d *ast.FuncDecl) models.SymbolRecord {
	name := d.Name.Name
	sym := models.SymbolRecord{
		Name:          name,
		QualifiedName: name,
		Kind:          models.SymbolFunc,
		FilePath:      path,
		Line:          fset.Position(d.Pos()).Line,
		EndLine:       fset.Position(d.End()).Line,
		Repo:          ix.repo,
		RelativePath:  rel,
		Doc:           docText(d.Doc),
		Exported:      d.Name.IsExported(),
	}
	if recv := receiverType(d); recv != "" {
		sym.Kind = models.SymbolMethod
		sym.Receiver = recv
		sym.QualifiedName = recv + "." + name
	}
	return sym
}

func (ix *Indexer) genSymbols(fset *token.FileSet, path, rel string, d *ast.GenDecl) []models.SymbolRecord {
	var symbols []models.SymbolRecord

	for _, spec := range d.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			doc := docText(s.Doc)
			if doc == "" {
				doc = docText(d.Doc)
			}
			start := s.Pos()
			if d.Lparen == token.NoPos {
				// Standalone declaration: span from the type keyword.
				start = d.Pos()
			}
			symbols = append(symbols, models.SymbolRecord{
				Name:          s.Name.Name,
				QualifiedName: s.Name.Name,
				Kind:          models.SymbolType,
				FilePath:      path,
				Line:          fset.Position(start).Line,
				EndLine:       fset.Position(s.End()).Line,
				Repo:          ix.repo,
				RelativePath:  rel,
				Doc:           doc,
				Exported:      s.Name.IsExported(),
			})

		case *ast.ValueSpec:
			if d.Tok != token.CONST && d.Tok != token.VAR {
				continue
			}
			kind := models.SymbolConst
			if d.Tok == token.VAR {
				kind = models.SymbolVar
			}
			doc := docText(s.Doc)
			if doc == "" {
				doc = docText(d.Doc)
			}
			for _, ident := range s.Names {
				// Only exported package values are worth looking up.
				if ident.Name == "_" || !ident.IsExported() {
					continue
				}
				symbols = append(symbols, models.SymbolRecord{
					Name:          ident.Name,
					QualifiedName: ident.Name,
					Kind:          kind,
					FilePath:      path,
					Line:          fset.Position(s.Pos()).Line,
					EndLine:       fset.Position(s.End()).Line,
					Repo:          ix.repo,
					RelativePath:  rel,
					Doc:           doc,
					Exported:      true,
				})
			}
		}
	}
	return symbols
}

// receiverType resolves a method receiver to its bare type name,
// unwrapping pointers and generic instantiations.
func receiverType(d *ast.FuncDecl) string {
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return ""
	}
	return typeName(d.Recv.List[0].Type)
}

func typeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return typeName(t.X)
	case *ast.IndexExpr:
		return typeName(t.X)
	case *ast.IndexListExpr:
		return typeName(t.X)
	}
	return ""
}

func docText(g *ast.CommentGroup) string {
	if g == nil {
		return ""
	}
	return strings.TrimSpace(g.Text())
}
