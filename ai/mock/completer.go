package mock

import (
	"context"
	"sync"
)

// Completer is a test double for ai.Completer.
type Completer struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Response is returned for every prompt.
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	// Response is the canned completion returned by default.
	Response string

	mu      sync.Mutex
	calls   int
	prompts []string
}

// NewCompleter creates a mock completer returning a fixed response.
func NewCompleter(response string) *Completer {
	return &Completer{Response: response}
}

// Complete records the prompt and returns the configured response.
func (m *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return m.Response, nil
}

// Calls returns the number of Complete invocations.
func (m *Completer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Prompts returns a copy of all prompts seen so far.
func (m *Completer) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
