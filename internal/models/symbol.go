// ABOUTME: Code index symbol records and mode-rendered source snippets
// ABOUTME: Symbols are top-level Go declarations keyed by qualified name
package models

// SymbolKind labels an indexed code declaration
type SymbolKind string

const (
	SymbolFunc   SymbolKind = "func"
	SymbolMethod SymbolKind = "method"
	SymbolType   SymbolKind = "type"
	SymbolConst  SymbolKind = "const"
	SymbolVar    SymbolKind = "var"
)

// SymbolRecord is one indexed declaration. Methods carry their receiver
// type and a qualified name of the form "Receiver.Method".
type SymbolRecord struct {
	Name          string     `json:"name"`
	QualifiedName string     `json:"qualified_name"`
	Kind          SymbolKind `json:"kind"`
	FilePath      string     `json:"file_path"`
	Line          int        `json:"line"`
	EndLine       int        `json:"end_line"`
	Repo          string     `json:"repo_name"`
	RelativePath  string     `json:"relative_path"`
	Doc           string     `json:"doc,omitempty"`
	Receiver      string     `json:"receiver,omitempty"`
	Exported      bool       `json:"exported"`
}

// CodeSnippet is a mode-rendered view of one symbol's source
type CodeSnippet struct {
	Name      string     `json:"name"`
	Kind      SymbolKind `json:"kind"`
	Code      string     `json:"code"`
	FilePath  string     `json:"file_path"`
	StartLine int        `json:"start_line"`
	EndLine   int        `json:"end_line"`
	Mode      DetailMode `json:"mode"`
	Language  string     `json:"language,omitempty"`
	Doc       string     `json:"doc,omitempty"`
	Methods   []string   `json:"methods,omitempty"`
}
