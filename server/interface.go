// Package server is the embedded Mnemos server the local backend runs
// in-process. It owns the metadata store, the archival vector index, and the
// model runtime, and exposes the same logical operations a remote server
// does over HTTP.
package server

import (
	"sync"
	"time"
)

// Interface collects the message frames an agent invocation emits. The local
// backend clears it before each call, invokes the server, then drains the
// queued frames as the call's result.
type Interface struct {
	mu     sync.Mutex
	frames []map[string]any
}

// NewInterface creates an empty queuing interface.
func NewInterface() *Interface {
	return &Interface{}
}

// Clear discards any queued frames.
func (q *Interface) Clear() {
	q.mu.Lock()
	q.frames = nil
	q.mu.Unlock()
}

// Drain returns the queued frames in emission order and empties the queue.
func (q *Interface) Drain() []map[string]any {
	q.mu.Lock()
	defer q.mu.Unlock()
	frames := q.frames
	q.frames = nil
	return frames
}

func (q *Interface) push(frame map[string]any) {
	frame["date"] = time.Now().UTC().Format(time.RFC3339)
	q.mu.Lock()
	q.frames = append(q.frames, frame)
	q.mu.Unlock()
}

// UserMessage records the user message that started the invocation.
func (q *Interface) UserMessage(msg string) {
	q.push(map[string]any{"user_message": msg})
}

// InternalMonologue records agent reasoning not addressed to the user.
func (q *Interface) InternalMonologue(msg string) {
	q.push(map[string]any{"internal_monologue": msg})
}

// AssistantMessage records a message addressed to the user.
func (q *Interface) AssistantMessage(msg string) {
	q.push(map[string]any{"assistant_message": msg})
}
