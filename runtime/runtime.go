// Package runtime runs the language-model step behind the embedded server.
// A Runtime takes an agent's prompt context and a new user message and
// produces the assistant messages for that turn.
package runtime

import (
	"context"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

// Request is one agent turn.
type Request struct {
	// Agent supplies the model configuration for the turn.
	Agent *core.AgentState

	// System is the assembled system prompt (preset system text plus the
	// persona and human core-memory sections).
	System string

	// History contains the prior conversation, oldest first.
	History []core.Message

	// Role and Text are the incoming message. Role is "user" or "system".
	Role string
	Text string

	// StreamCallback, when set, receives response text incrementally.
	// It is called a final time with done=true.
	StreamCallback func(chunk string, done bool)
}

// Response is the model's side of the turn.
type Response struct {
	// Messages are the assistant messages produced, in order. Role and
	// Text are populated; persistence fields are left to the caller.
	Messages []core.Message

	// InputTokens and OutputTokens report usage for the turn.
	InputTokens  int
	OutputTokens int
}

// Runtime executes agent turns against a language model.
type Runtime interface {
	Step(ctx context.Context, req *Request) (*Response, error)
}
