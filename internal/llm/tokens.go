// ABOUTME: Token counting for pre-admission rate checks
// ABOUTME: Uses the model tokenizer when available, a character heuristic otherwise
package llm

import (
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts tokens with a model-specific tokenizer.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTokenCounter builds a counter for the given model, falling back to the
// cl100k_base encoding for models tiktoken does not know.
func NewTokenCounter(model string) *TokenCounter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			enc = nil
		}
	}
	return &TokenCounter{enc: enc}
}

// Count returns the token count for text, estimating when no tokenizer
// could be loaded.
func (t *TokenCounter) Count(text string) int {
	if t == nil || t.enc == nil {
		return EstimateTokens(text)
	}
	return len(t.enc.Encode(text, nil, nil))
}

// EstimateTokens approximates a token count as one token per four
// characters, never less than one. Used for embedding inputs, whose true
// count is unknown before the call.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n < 1 {
		return 1
	}
	return n
}
