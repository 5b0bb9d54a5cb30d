package interview

import (
	"context"
	"time"

	"github.com/sandevgo/dermflow/internal/config"
	"github.com/sandevgo/dermflow/internal/core"
)

func testConfig() *config.InterviewConfig {
	return &config.InterviewConfig{
		TotalPhases:        5,
		MessagesPerPhase:   4,
		CompressAfter:      12,
		CompressionKeep:    10,
		CacheEnabled:       true,
		CacheTTL:           time.Hour,
		CacheSweepSize:     256,
		SessionTTL:         48 * time.Hour,
		SweepInterval:      15 * time.Minute,
		MaxTokens:          1024,
		Temperature:        0.8,
		SynthesisMaxTokens: 2048,
		SynthesisTemp:      0.2,
	}
}

// scriptGen returns scripted replies in order, then errors if the script is
// exhausted. Errs, when set, are consumed in lockstep with Replies.
type scriptGen struct {
	replies  []string
	errs     []error
	calls    int
	requests []core.GenerateRequest
}

func (g *scriptGen) Generate(_ context.Context, req core.GenerateRequest) (*core.GenerateResult, error) {
	idx := g.calls
	g.calls++
	g.requests = append(g.requests, req)

	if idx < len(g.errs) && g.errs[idx] != nil {
		return nil, g.errs[idx]
	}
	if idx >= len(g.replies) {
		return nil, core.ErrUpstreamServerError
	}
	return &core.GenerateResult{Text: g.replies[idx]}, nil
}

func userMsg(content string) core.Message {
	return core.Message{Role: core.RoleUser, Content: content, CreatedAt: time.Now()}
}

func assistantMsg(content string) core.Message {
	return core.Message{Role: core.RoleAssistant, Content: content, CreatedAt: time.Now()}
}

// dialogue interleaves assistant questions with the given user answers.
func dialogue(userTurns ...string) []core.Message {
	msgs := []core.Message{assistantMsg("How would you describe your skin?")}
	for _, turn := range userTurns {
		msgs = append(msgs, userMsg(turn), assistantMsg("Got it. Tell me more."))
	}
	return msgs
}
