package core

import (
	"context"
	"encoding/json"
)

// GenerateRequest is one call against the text-generation service. System is
// the static instruction block, StaticContext the fixed suggestion/format
// block, DynamicContext the per-turn memory and guidance block. Keeping the
// static blocks separate from the dynamic one lets the provider mark them
// cacheable upstream.
type GenerateRequest struct {
	System         string
	StaticContext  string
	DynamicContext string
	Messages       []Message
	MaxTokens      int
	Temperature    float64
}

type TokenUsage struct {
	InputTokens         int `json:"input_tokens"`
	OutputTokens        int `json:"output_tokens"`
	CacheCreationTokens int `json:"cache_creation_tokens"`
	CacheReadTokens     int `json:"cache_read_tokens"`
}

type GenerateResult struct {
	Text  string
	Usage TokenUsage
}

// Generator is the boundary to the generative-text service.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}

// EnvironmentProvider looks up enrichment context for a location. The result
// is an opaque blob passed through to the generation call; this core never
// reads its fields.
type EnvironmentProvider interface {
	Lookup(ctx context.Context, point GeoPoint) (json.RawMessage, error)
}

// ReplyCache is the exact-match cache of normalized input text to generated
// reply. Keying ignores session and transcript on purpose: identical input
// yields the identical cached turn at zero marginal cost.
type ReplyCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Put(ctx context.Context, key string, reply string)
}
