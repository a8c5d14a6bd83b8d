package runtime

import (
	"context"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 4096
)

// AnthropicRuntime executes turns against the Anthropic Messages API.
type AnthropicRuntime struct {
	client    *anthropic.Client
	maxTokens int64
}

// AnthropicOption configures the runtime.
type AnthropicOption func(*AnthropicRuntime)

// WithMaxTokens caps response tokens per turn.
func WithMaxTokens(n int64) AnthropicOption {
	return func(r *AnthropicRuntime) {
		r.maxTokens = n
	}
}

// NewAnthropic creates a runtime. An empty apiKey falls back to the SDK's
// environment-based credentials.
func NewAnthropic(apiKey string, opts ...AnthropicOption) *AnthropicRuntime {
	var client anthropic.Client
	if apiKey != "" {
		client = anthropic.NewClient(option.WithAPIKey(apiKey))
	} else {
		client = anthropic.NewClient()
	}
	r := &AnthropicRuntime{
		client:    &client,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Step sends the turn to the Messages API and returns the assistant output.
func (r *AnthropicRuntime) Step(ctx context.Context, req *Request) (*Response, error) {
	model := defaultModel
	if req.Agent != nil && req.Agent.LLMConfig.Model != "" {
		model = req.Agent.LLMConfig.Model
	}

	msgs := make([]anthropic.MessageParam, 0, len(req.History)+1)
	for _, m := range req.History {
		if m.Text == "" {
			continue
		}
		switch m.Role {
		case "assistant":
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		}
	}
	msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Text)))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: r.maxTokens,
		Messages:  msgs,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	var resp *anthropic.Message
	var err error
	if req.StreamCallback != nil {
		resp, err = r.stepStreaming(ctx, params, req.StreamCallback)
	} else {
		resp, err = r.client.Messages.New(ctx, params)
	}
	if err != nil {
		return nil, fmt.Errorf("anthropic api: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	log.Printf("[RUNTIME] model=%s in=%d out=%d", model,
		resp.Usage.InputTokens, resp.Usage.OutputTokens)

	return &Response{
		Messages:     []core.Message{{Role: "assistant", Text: text}},
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}, nil
}

func (r *AnthropicRuntime) stepStreaming(ctx context.Context, params anthropic.MessageNewParams, callback func(string, bool)) (*anthropic.Message, error) {
	stream := r.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	message := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			continue
		}
		switch evt := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch delta := evt.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				callback(delta.Text, false)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	callback("", true)
	return &message, nil
}

var _ Runtime = (*AnthropicRuntime)(nil)
