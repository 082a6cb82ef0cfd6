// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package enrichment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

// ErrAuth means the provider refused the credential (HTTP 401/403).
var ErrAuth = errors.New("AI provider rejected credential")

// Input is the content sent for analysis.
type Input struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	Text        string `json:"text,omitempty"`
}

// Metadata is the analysis returned by the provider.
type Metadata struct {
	Tags         []string `json:"tags"`
	QualityScore int      `json:"quality_score"`
	ContentType  string   `json:"content_type"`
	Difficulty   string   `json:"difficulty"`
	KeyConcepts  []string `json:"key_concepts"`
	Summary      string   `json:"summary"`
}

// Client talks to the AI provider with an explicit API key per call.
type Client interface {
	Embed(ctx context.Context, apiKey, text string) ([]float32, error)
	Analyze(ctx context.Context, apiKey string, in Input) (*Metadata, error)
	ValidateKey(ctx context.Context, apiKey string) error
}

// OpenAIOptions configures OpenAIClient.
type OpenAIOptions struct {
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
	Dimensions     int
}

// OpenAIClient implements Client on the official openai-go SDK. A client
// value is built per call because the key differs per user.
type OpenAIClient struct {
	opts OpenAIOptions
}

// NewOpenAIClient creates an OpenAIClient with defaults filled in.
func NewOpenAIClient(opts OpenAIOptions) *OpenAIClient {
	if opts.EmbeddingModel == "" {
		opts.EmbeddingModel = "text-embedding-3-small"
	}
	if opts.ChatModel == "" {
		opts.ChatModel = "gpt-4o-mini"
	}
	if opts.Dimensions <= 0 {
		opts.Dimensions = 384
	}
	return &OpenAIClient{opts: opts}
}

func (c *OpenAIClient) client(apiKey string) openai.Client {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// retries would hide failures from the breaker and the quota counters
		option.WithMaxRetries(0),
	}
	if base := strings.TrimRight(strings.TrimSpace(c.opts.BaseURL), "/"); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	return openai.NewClient(reqOpts...)
}

// Embed returns the embedding of text, truncated to the configured
// dimension by the provider.
func (c *OpenAIClient) Embed(ctx context.Context, apiKey, text string) ([]float32, error) {
	cl := c.client(apiKey)
	resp, err := cl.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model:      openai.EmbeddingModel(c.opts.EmbeddingModel),
		Dimensions: openai.Int(int64(c.opts.Dimensions)),
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response contained no data")
	}
	src := resp.Data[0].Embedding
	vec := make([]float32, len(src))
	for i, v := range src {
		vec[i] = float32(v)
	}
	return vec, nil
}

const analyzePrompt = `You classify saved learning resources. Reply with a JSON object:
{"tags": [up to 8 lowercase technology or topic tags],
 "quality_score": integer 1-10 rating depth and accuracy,
 "content_type": one of "tutorial","documentation","article","video","course","reference","other",
 "difficulty": one of "beginner","intermediate","advanced",
 "key_concepts": [up to 6 short phrases],
 "summary": one sentence}`

// Analyze asks the chat model for tags, quality and classification.
func (c *OpenAIClient) Analyze(ctx context.Context, apiKey string, in Input) (*Metadata, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal input: %w", err)
	}

	cl := c.client(apiKey)
	resp, err := cl.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.opts.ChatModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analyzePrompt),
			openai.UserMessage(string(payload)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from AI")
	}

	return parseMetadata(resp.Choices[0].Message.Content)
}

// ValidateKey lists models with the key; any auth failure returns ErrAuth.
func (c *OpenAIClient) ValidateKey(ctx context.Context, apiKey string) error {
	cl := c.client(apiKey)
	if _, err := cl.Models.List(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %w", ErrAuth, err)
		}
	}
	return err
}

// parseMetadata accepts the model's reply, tolerating code fences and
// surrounding prose, and normalizes the result.
func parseMetadata(raw string) (*Metadata, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var meta Metadata
	if err := json.Unmarshal([]byte(cleaned), &meta); err != nil {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("invalid JSON response from AI: %w", err)
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &meta); err != nil {
			return nil, fmt.Errorf("invalid JSON response from AI: %w", err)
		}
	}
	meta.normalize()
	return &meta, nil
}

func (m *Metadata) normalize() {
	m.Tags = normalizeList(m.Tags, 8, true)
	m.KeyConcepts = normalizeList(m.KeyConcepts, 6, false)
	m.QualityScore = min(max(m.QualityScore, 1), 10)
	m.ContentType = strings.ToLower(strings.TrimSpace(m.ContentType))
	m.Difficulty = strings.ToLower(strings.TrimSpace(m.Difficulty))
	m.Summary = strings.TrimSpace(m.Summary)
}

func normalizeList(in []string, limit int, lower bool) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if lower {
			s = strings.ToLower(s)
		}
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}

var _ Client = (*OpenAIClient)(nil)
