package llm

import (
	"context"
	"sync"

	"github.com/sandevgo/dermflow/internal/core"
)

// Mock returns canned replies in order, looping on the last one. Used in
// tests and for running the service without an API key; concurrent turns
// may hit it when it backs a live server.
type Mock struct {
	Replies []string

	mu    sync.Mutex
	calls int
}

func NewMock(replies ...string) *Mock {
	return &Mock{Replies: replies}
}

func (m *Mock) Generate(ctx context.Context, req core.GenerateRequest) (*core.GenerateResult, error) {
	m.mu.Lock()
	idx := m.calls
	m.calls++
	m.mu.Unlock()

	if idx >= len(m.Replies) {
		idx = len(m.Replies) - 1
	}

	return &core.GenerateResult{
		Text:  m.Replies[idx],
		Usage: core.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}, nil
}

// Calls reports how many times Generate ran.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
