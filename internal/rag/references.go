// ABOUTME: Extracts code object references from generated answers and context
// ABOUTME: Categorized patterns with a fixed priority order for follow-up budget
package rag

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	// Type.method or Type.attribute, requiring a call-ish open paren.
	typeMethodRe = regexp.MustCompile(`\b([A-Z][a-zA-Z0-9_]*\.[a-z_][a-zA-Z0-9_]*)\(\)?`)
	// package.Type or package.Type.member.
	moduleObjectRe = regexp.MustCompile(`\b([a-z_][a-z0-9_]*\.[A-Z][a-zA-Z0-9_]*(?:\.[a-z_][a-zA-Z0-9_]*)?)\b`)
	// @decorator, possibly dotted.
	decoratorRe = regexp.MustCompile(`@([a-z_][a-z0-9_]*(?:\.[a-z_][a-z0-9_]*)*)`)
	// Backticked function call.
	backtickFuncRe = regexp.MustCompile("`([a-z_][a-z0-9_]*)\\(\\)`")
	// Backticked type name.
	backtickTypeRe = regexp.MustCompile("`([A-Z][a-zA-Z0-9_]*)`")
)

// References holds extracted code references by category. Each category
// is deduplicated and sorted so follow-up selection is deterministic.
type References struct {
	QualifiedNames []string
	TypeMethods    []string
	Types          []string
	ModuleObjects  []string
	Decorators     []string
	Functions      []string
}

// Total counts distinct references across every category.
func (r References) Total() int {
	seen := make(map[string]bool)
	for _, group := range [][]string{
		r.QualifiedNames, r.TypeMethods, r.Types,
		r.ModuleObjects, r.Decorators, r.Functions,
	} {
		for _, ref := range group {
			seen[ref] = true
		}
	}
	return len(seen)
}

// ReferenceExtractor finds code references worth following up on.
// Library-qualified names are recognized for the given library set.
type ReferenceExtractor struct {
	libraries   []string
	qualifiedRe *regexp.Regexp
}

// NewReferenceExtractor creates an extractor recognizing the given
// library prefixes for fully qualified names. Order matters: longer
// library names must precede names they contain.
func NewReferenceExtractor(libraries []string) *ReferenceExtractor {
	x := &ReferenceExtractor{libraries: libraries}
	if len(libraries) > 0 {
		quoted := make([]string, len(libraries))
		for i, lib := range libraries {
			quoted[i] = regexp.QuoteMeta(lib)
		}
		x.qualifiedRe = regexp.MustCompile(
			`\b((?:` + strings.Join(quoted, "|") + `)(?:\.[a-z_][a-z0-9_]*)*\.[A-Z][a-zA-Z0-9_]*(?:\.[a-z_][a-zA-Z0-9_]*)?)\b`,
		)
	}
	return x
}

// Extract pulls categorized references out of text.
func (x *ReferenceExtractor) Extract(text string) References {
	refs := References{
		TypeMethods:   captures(typeMethodRe, text),
		ModuleObjects: captures(moduleObjectRe, text),
		Decorators:    captures(decoratorRe, text),
		Functions:     captures(backtickFuncRe, text),
		Types:         captures(backtickTypeRe, text),
	}
	if x.qualifiedRe != nil {
		refs.QualifiedNames = captures(x.qualifiedRe, text)
	}
	return refs
}

func captures(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	sort.Strings(out)
	return out
}

// Prioritize picks up to maxRefs references to follow, most specific
// first: qualified names, then type methods, types, module objects, and
// decorators. A reference already contained in a chosen one is skipped.
func (x *ReferenceExtractor) Prioritize(refs References, maxRefs int) []string {
	var out []string
	contained := func(ref string) bool {
		for _, p := range out {
			if strings.Contains(p, ref) {
				return true
			}
		}
		return false
	}

	for _, ref := range refs.QualifiedNames {
		if len(out) >= maxRefs {
			break
		}
		out = append(out, ref)
	}
	for _, group := range [][]string{refs.TypeMethods, refs.Types, refs.ModuleObjects} {
		for _, ref := range group {
			if len(out) >= maxRefs {
				break
			}
			if !contained(ref) {
				out = append(out, ref)
			}
		}
	}
	for _, ref := range refs.Decorators {
		if len(out) >= maxRefs {
			break
		}
		if !contained(ref) {
			out = append(out, "@"+ref)
		}
	}
	return out
}

// FormatQuery turns a reference into a follow-up question.
func (x *ReferenceExtractor) FormatQuery(reference string) string {
	ref := x.stripLibraryPrefix(reference)
	if strings.HasPrefix(ref, "@") {
		return fmt.Sprintf("what is the %s decorator", ref)
	}
	if strings.Contains(ref, ".") {
		parts := strings.Split(ref, ".")
		return fmt.Sprintf("what is %s %s", parts[0], parts[1])
	}
	return "what is " + ref
}

// LookupName normalizes a reference for a code index lookup: library
// prefixes and the decorator marker are dropped.
func (x *ReferenceExtractor) LookupName(reference string) string {
	return strings.TrimPrefix(x.stripLibraryPrefix(reference), "@")
}

func (x *ReferenceExtractor) stripLibraryPrefix(reference string) string {
	ref := reference
	for _, lib := range x.libraries {
		ref = strings.ReplaceAll(ref, lib+".", "")
	}
	return ref
}
