// ABOUTME: Retrieval strategy types produced by the router and consumed by the orchestrator
// ABOUTME: Typed per-tool step parameters with at most one fallback per step
package models

import "fmt"

// ToolKind names a retrieval tool the orchestrator can invoke
type ToolKind string

const (
	ToolCodeIndex         ToolKind = "search_code_index"
	ToolCodeGet           ToolKind = "get_code_by_name"
	ToolDocSearch         ToolKind = "query_rag"
	ToolDocSearchEnhanced ToolKind = "query_rag_enhanced"
)

// DetailMode controls how much of a code object is retrieved
type DetailMode string

const (
	DetailSignature   DetailMode = "signature"
	DetailMethodsList DetailMode = "methods_list"
	DetailOutline     DetailMode = "outline"
	DetailFull        DetailMode = "full"
)

// ParseDetailMode validates a detail mode name. Empty selects signature.
func ParseDetailMode(s string) (DetailMode, error) {
	switch DetailMode(s) {
	case "":
		return DetailSignature, nil
	case DetailSignature, DetailMethodsList, DetailOutline, DetailFull:
		return DetailMode(s), nil
	}
	return "", fmt.Errorf("unknown detail mode %q (want signature, methods_list, outline, or full)", s)
}

// MatchMode controls code-index name matching
type MatchMode string

const (
	MatchExact    MatchMode = "exact"
	MatchPrefix   MatchMode = "prefix"
	MatchContains MatchMode = "contains"
)

// ParseMatchMode validates a match mode name. Empty selects contains.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case "":
		return MatchContains, nil
	case MatchExact, MatchPrefix, MatchContains:
		return MatchMode(s), nil
	}
	return "", fmt.Errorf("unknown match mode %q (want exact, prefix, or contains)", s)
}

// StepParams is the closed set of per-tool parameter shapes. Each tool
// kind pairs with exactly one concrete type, so the router cannot build
// a step whose params do not fit its tool.
type StepParams interface {
	isStepParams()
}

// CodeIndexParams parameterizes a code-index search step
type CodeIndexParams struct {
	Name  string    `json:"name"`
	Match MatchMode `json:"match_mode"`
	Repo  string    `json:"repo_name,omitempty"`
	Limit int       `json:"limit,omitempty"`
}

// CodeGetParams parameterizes a code retrieval step
type CodeGetParams struct {
	Name string     `json:"name"`
	Mode DetailMode `json:"mode"`
	Repo string     `json:"repo_name,omitempty"`
}

// DocSearchParams parameterizes a documentation search step
type DocSearchParams struct {
	Question string   `json:"question"`
	TopK     int      `json:"top_k"`
	Tags     []string `json:"tags,omitempty"`
}

// EnhancedSearchParams parameterizes an enhanced documentation search step
type EnhancedSearchParams struct {
	Question     string   `json:"question"`
	TopK         int      `json:"top_k"`
	MaxFollowups int      `json:"max_followups"`
	Tags         []string `json:"tags,omitempty"`
}

func (CodeIndexParams) isStepParams()      {}
func (CodeGetParams) isStepParams()        {}
func (DocSearchParams) isStepParams()      {}
func (EnhancedSearchParams) isStepParams() {}

// RetrievalStep is one planned tool invocation. A step may chain exactly
// one fallback, invoked only when the primary yields an empty result.
// Steps are immutable once constructed.
type RetrievalStep struct {
	Tool      ToolKind       `json:"tool"`
	Params    StepParams     `json:"params"`
	Reasoning string         `json:"reasoning"`
	Fallback  *RetrievalStep `json:"fallback,omitempty"`
}

// RetrievalStrategy is the ordered, explainable plan for one query
type RetrievalStrategy struct {
	Steps           []RetrievalStep `json:"steps"`
	InitialDetail   DetailMode      `json:"initial_detail_mode"`
	ExpandOnRequest bool            `json:"expand_on_request"`
	ConfidenceFloor float64         `json:"confidence_floor"`
	Reasoning       string          `json:"reasoning"`
}
