// ABOUTME: Answer shapes returned by retrieval and orchestration
// ABOUTME: Tool call traces, grounding bundles, and the final query result
package models

// SourceRef identifies one document chunk an answer drew from
type SourceRef struct {
	SectionPath string  `json:"section_path"`
	Filename    string  `json:"filename"`
	ChunkIndex  int     `json:"chunk_index"`
	Score       float64 `json:"score"`
}

// CodeRef identifies one code location an answer drew from
type CodeRef struct {
	Name     string     `json:"name"`
	FilePath string     `json:"file_path"`
	Line     int        `json:"line"`
	Kind     SymbolKind `json:"kind,omitempty"`
}

// DocAnswer is a generated documentation answer with provenance
type DocAnswer struct {
	Answer      string      `json:"answer"`
	Sources     []SourceRef `json:"sources"`
	ContextUsed []string    `json:"context_used"`
}

// FollowedRef records one code reference chased during enhancement
type FollowedRef struct {
	Reference string      `json:"reference"`
	Query     string      `json:"query"`
	Answer    string      `json:"answer"`
	Sources   []SourceRef `json:"sources,omitempty"`
}

// EnhancedAnswer augments DocAnswer with followed code references, any
// source snippets resolved for them, and the step-by-step thinking log
// accumulated while following them
type EnhancedAnswer struct {
	DocAnswer
	Thinking     []string      `json:"thinking,omitempty"`
	FollowedRefs []FollowedRef `json:"followed_refs,omitempty"`
	Snippets     []CodeSnippet `json:"snippets,omitempty"`
}

// ToolCall is one trace entry for an attempted tool invocation.
// Appended during execution and never mutated afterwards.
type ToolCall struct {
	Tool      ToolKind   `json:"tool"`
	Params    StepParams `json:"params"`
	HasResult bool       `json:"has_result"`
	Success   bool       `json:"success"`
	Reasoning string     `json:"reasoning"`
	Error     string     `json:"error,omitempty"`
}

// Grounding is the set of sources and code locations an answer rests on
type Grounding struct {
	Sources []SourceRef `json:"sources"`
	Code    []CodeRef   `json:"code"`
}

// QueryResult is the orchestrator's complete response to one question
type QueryResult struct {
	Query          string              `json:"query"`
	Answer         string              `json:"answer"`
	Classification QueryClassification `json:"classification"`
	Strategy       RetrievalStrategy   `json:"strategy"`
	ToolCalls      []ToolCall          `json:"tool_calls"`
	Confidence     float64             `json:"confidence"`
	Grounding      Grounding           `json:"grounding"`
	Suggestions    []string            `json:"suggestions"`
}
