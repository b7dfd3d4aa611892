// Package llm exposes the language-model operations the pipeline depends
// on: free-form generation, grounded web search, and schema-constrained
// extraction. Generation and extraction run on Anthropic; grounded search
// runs on Perplexity.
package llm

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/podscout/pkg/anthropic"
	"github.com/sells-group/podscout/pkg/perplexity"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 2048
)

// ErrNoStructuredOutput is returned when the model does not produce the
// forced tool call. Callers treat this as a provider failure, never as an
// empty result.
var ErrNoStructuredOutput = eris.New("llm: model returned no structured output")

// Client is the language-model surface the pipeline depends on.
type Client interface {
	// Generate returns free-form text for a prompt.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// GroundedSearch answers a prompt with live web search and returns the
	// answer together with its source citations.
	GroundedSearch(ctx context.Context, req GroundedRequest) (*GroundedAnswer, error)

	// ExtractStructured forces the model to call a single tool whose input
	// conforms to the given schema, then unmarshals that input into out.
	ExtractStructured(ctx context.Context, req ExtractRequest, out any) error
}

// GenerateRequest is a free-form generation request.
type GenerateRequest struct {
	System      string
	Prompt      string
	MaxTokens   int64
	Temperature *float64

	// CacheSystem marks the system prompt for provider-side caching. Set it
	// when the same system prompt is reused across many calls.
	CacheSystem bool
}

// GroundedRequest is a web-grounded question.
type GroundedRequest struct {
	Prompt string

	// RecencyFilter restricts sources by age: "day", "week", "month", "year".
	RecencyFilter string

	// DomainFilter restricts sources to the given domains.
	DomainFilter []string

	MaxTokens int
}

// GroundedAnswer is a grounded response with its supporting sources.
type GroundedAnswer struct {
	Text      string
	Citations []string
}

// ExtractRequest is a schema-constrained extraction request.
type ExtractRequest struct {
	System      string
	Prompt      string
	Tool        ToolSpec
	MaxTokens   int64
	CacheSystem bool
}

// ToolSpec names the forced tool and its input schema.
type ToolSpec struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string
}

// UsageRecorder receives per-call usage from the client. Implementations
// must be safe for concurrent use; stages call the client from many
// goroutines.
type UsageRecorder interface {
	RecordClaude(model string, input, output, cacheWrite, cacheRead int64)
	RecordGroundedQuery()
}

// Option configures the client.
type Option func(*client)

// WithModel overrides the default Anthropic model.
func WithModel(model string) Option {
	return func(c *client) {
		c.model = model
	}
}

// WithMaxTokens overrides the default token cap.
func WithMaxTokens(n int64) Option {
	return func(c *client) {
		c.maxTokens = n
	}
}

// WithUsageRecorder reports every provider call to r.
func WithUsageRecorder(r UsageRecorder) Option {
	return func(c *client) {
		c.usage = r
	}
}

type client struct {
	anthropic  anthropic.Client
	perplexity perplexity.Client
	model      string
	maxTokens  int64
	usage      UsageRecorder
}

// New creates a Client over the two provider backends.
func New(ac anthropic.Client, pc perplexity.Client, opts ...Option) Client {
	c := &client{
		anthropic:  ac,
		perplexity: pc,
		model:      defaultModel,
		maxTokens:  defaultMaxTokens,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	msgReq := anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Messages:    []anthropic.Message{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	}
	if req.System != "" {
		msgReq.System = systemBlocks(req.System, req.CacheSystem)
	}

	resp, err := c.anthropic.CreateMessage(ctx, msgReq)
	if err != nil {
		return "", eris.Wrap(err, "llm: generate")
	}
	c.recordClaude(resp.Usage)
	return resp.Text(), nil
}

func (c *client) GroundedSearch(ctx context.Context, req GroundedRequest) (*GroundedAnswer, error) {
	completionReq := perplexity.ChatCompletionRequest{
		Messages:            []perplexity.Message{{Role: "user", Content: req.Prompt}},
		SearchRecencyFilter: req.RecencyFilter,
		SearchDomainFilter:  req.DomainFilter,
	}
	if req.MaxTokens > 0 {
		completionReq.MaxTokens = &req.MaxTokens
	}

	resp, err := c.perplexity.ChatCompletion(ctx, completionReq)
	if err != nil {
		return nil, eris.Wrap(err, "llm: grounded search")
	}
	if c.usage != nil {
		c.usage.RecordGroundedQuery()
	}

	return &GroundedAnswer{
		Text:      resp.Answer(),
		Citations: resp.Citations,
	}, nil
}

func (c *client) ExtractStructured(ctx context.Context, req ExtractRequest, out any) error {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	msgReq := anthropic.MessageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: req.Prompt}},
		Tools: []anthropic.Tool{{
			Name:        req.Tool.Name,
			Description: req.Tool.Description,
			InputSchema: anthropic.ToolInputSchema{
				Properties: req.Tool.Properties,
				Required:   req.Tool.Required,
			},
		}},
		ToolChoice: req.Tool.Name,
	}
	if req.System != "" {
		msgReq.System = systemBlocks(req.System, req.CacheSystem)
	}

	resp, err := c.anthropic.CreateMessage(ctx, msgReq)
	if err != nil {
		return eris.Wrap(err, "llm: extract structured")
	}
	c.recordClaude(resp.Usage)

	input, ok := resp.ToolInput(req.Tool.Name)
	if !ok {
		return ErrNoStructuredOutput
	}
	if err := json.Unmarshal(input, out); err != nil {
		return eris.Wrap(err, "llm: decode structured output")
	}
	return nil
}

func (c *client) recordClaude(u anthropic.TokenUsage) {
	if c.usage == nil {
		return
	}
	c.usage.RecordClaude(c.model, u.InputTokens, u.OutputTokens, u.CacheCreationInputTokens, u.CacheReadInputTokens)
}

func systemBlocks(text string, cached bool) []anthropic.SystemBlock {
	if cached {
		return anthropic.BuildCachedSystemBlocks(text)
	}
	return []anthropic.SystemBlock{{Text: text}}
}
