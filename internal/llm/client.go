// ABOUTME: Rate-gated OpenAI client for embeddings and answer generation
// ABOUTME: Every call passes the admission gate first; generation re-records true usage afterwards
package llm

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/quarry-labs/quarry/internal/models"
	"github.com/quarry-labs/quarry/internal/ratelimit"
	"github.com/quarry-labs/quarry/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for answer generation
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel openai.EmbeddingModel
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	chatModel := os.Getenv("QUARRY_OPENAI_MODEL")
	if chatModel == "" {
		chatModel = DefaultChatModel
	}

	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      chatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		MaxRetries:     3,
		RetryDelay:     time.Second * 2,
	}
}

// Client wraps the OpenAI API client with admission control and retry logic.
// Transport errors are retried with backoff; rate-limit rejections are not
// retried here, callers decide whether to wait.
type Client struct {
	api            *openai.Client
	gate           *ratelimit.Gate
	counter        *TokenCounter
	chatModel      string
	embeddingModel openai.EmbeddingModel
	maxRetries     int
	backoff        util.Backoff
}

// NewClient creates a rate-gated client with default configuration.
func NewClient(apiKey string, gate *ratelimit.Gate) (*Client, error) {
	return NewClientWithConfig(DefaultConfig(apiKey), gate)
}

// NewClientWithConfig creates a rate-gated client with custom configuration.
func NewClientWithConfig(config *ClientConfig, gate *ratelimit.Gate) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if gate == nil {
		return nil, fmt.Errorf("rate gate is required")
	}

	return &Client{
		api:            openai.NewClient(config.APIKey),
		gate:           gate,
		counter:        NewTokenCounter(config.ChatModel),
		chatModel:      config.ChatModel,
		embeddingModel: config.EmbeddingModel,
		maxRetries:     config.MaxRetries,
		backoff:        util.Backoff{Base: config.RetryDelay},
	}, nil
}

// ChatModel returns the configured generation model name.
func (c *Client) ChatModel() string {
	return c.chatModel
}

// CountTokens returns the exact token count of text under the chat model's
// tokenizer.
func (c *Client) CountTokens(text string) int {
	return c.counter.Count(text)
}

func float32sTo64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// Embed generates an embedding vector for one text. The admission gate is
// consulted per attempt with the character-based estimate; embeddings keep
// the estimate on the ledger since no exact count exists before the call.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embedding vectors for several texts in one request.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	estimated := 0
	for _, text := range texts {
		estimated += EstimateTokens(text)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(c.backoff.Delay(attempt))
		}

		if _, err := c.gate.Admit(estimated, models.CallEmbed); err != nil {
			return nil, fmt.Errorf("embedding not admitted: %w", err)
		}

		callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		resp, err := c.api.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: c.embeddingModel,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) != len(texts) {
			lastErr = fmt.Errorf("attempt %d: got %d embeddings for %d inputs", attempt+1, len(resp.Data), len(texts))
			continue
		}

		vectors := make([][]float64, len(resp.Data))
		for _, item := range resp.Data {
			vectors[item.Index] = float32sTo64(item.Embedding)
		}
		return vectors, nil
	}

	return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", c.maxRetries+1, lastErr)
}

// Generate produces a completion for the prompt. Admission uses twice the
// exact input token count as a conservative pre-call estimate; once the
// provider reports authoritative usage, the ledger entry is updated to the
// true prompt plus completion total.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	inputTokens := c.counter.Count(prompt)
	estimated := inputTokens * 2

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(c.backoff.Delay(attempt))
		}

		reservation, err := c.gate.Admit(estimated, models.CallGenerate)
		if err != nil {
			return "", fmt.Errorf("generation not admitted: %w", err)
		}

		callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: 0.3,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}

		if actual := resp.Usage.PromptTokens + resp.Usage.CompletionTokens; actual > 0 {
			if err := reservation.Commit(actual); err != nil {
				log.Printf("rate ledger update failed: %v", err)
			}
		}

		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("failed to generate completion after %d attempts: %w", c.maxRetries+1, lastErr)
}
