package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/sandevgo/dermflow/internal/config"
	"github.com/sandevgo/dermflow/internal/core"
	"github.com/sandevgo/dermflow/pkg/log"
	"github.com/sandevgo/dermflow/pkg/retry"
)

const anthropicVersion = "2023-06-01"

// Anthropic talks to the Anthropic messages API. The static system and
// context blocks carry cache_control so the upstream prompt cache covers
// them; only the per-turn dynamic block stays uncached.
type Anthropic struct {
	baseProvider
	retrier *retry.Retrier
}

func NewAnthropic(cfg *config.AnthropicConfig) *Anthropic {
	// Timed-out calls are not retried in-process; the client deadline
	// already elapsed once.
	retryIf := func(err error) bool {
		return core.Retryable(err) && !errors.Is(err, core.ErrUpstreamTimeout)
	}
	return &Anthropic{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout),
		retrier:      retry.NewDefaultRetrier(retryIf),
	}
}

type systemBlock struct {
	Type         string          `json:"type"`
	Text         string          `json:"text"`
	CacheControl json.RawMessage `json:"cache_control,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (a *Anthropic) Generate(ctx context.Context, req core.GenerateRequest) (*core.GenerateResult, error) {
	cacheable := json.RawMessage(`{"type":"ephemeral"}`)

	system := []systemBlock{
		{Type: "text", Text: req.System, CacheControl: cacheable},
	}
	if req.StaticContext != "" {
		system = append(system, systemBlock{Type: "text", Text: req.StaticContext, CacheControl: cacheable})
	}
	if req.DynamicContext != "" {
		system = append(system, systemBlock{Type: "text", Text: req.DynamicContext})
	}

	messages := make([]chatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	payload := map[string]any{
		"model":       a.model,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
		"system":      system,
		"messages":    messages,
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
		"user-agent":        core.ServiceUserAgent,
	}

	var result *core.GenerateResult
	err := a.retrier.Do(ctx, func() error {
		var opErr error
		result, opErr = a.generateOnce(ctx, payload, headers)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().
		Int("input_tokens", result.Usage.InputTokens).
		Int("output_tokens", result.Usage.OutputTokens).
		Int("cache_read_tokens", result.Usage.CacheReadTokens).
		Msg("generation call completed")

	return result, nil
}

func (a *Anthropic) generateOnce(ctx context.Context, payload any, headers map[string]string) (*core.GenerateResult, error) {
	resp, err := a.doRequest(ctx, http.MethodPost, "/v1/messages", payload, headers)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", core.ErrUpstreamServerError, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, data)
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens              int `json:"input_tokens"`
			OutputTokens             int `json:"output_tokens"`
			CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
			CacheReadInputTokens     int `json:"cache_read_input_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", core.ErrUpstreamServerError, err)
	}

	var text string
	for _, c := range result.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}

	return &core.GenerateResult{
		Text: text,
		Usage: core.TokenUsage{
			InputTokens:         result.Usage.InputTokens,
			OutputTokens:        result.Usage.OutputTokens,
			CacheCreationTokens: result.Usage.CacheCreationInputTokens,
			CacheReadTokens:     result.Usage.CacheReadInputTokens,
		},
	}, nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", core.ErrUpstreamTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", core.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", core.ErrUpstreamServerError, err)
}

func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: http %d", core.ErrUpstreamRateLimited, status)
	case status >= 400 && status < 500:
		// 401/403 included: a bad key is a caller problem, not transient.
		return fmt.Errorf("%w: http %d: %s", core.ErrUpstreamBadRequest, status, body)
	case status >= 500:
		return fmt.Errorf("%w: http %d", core.ErrUpstreamServerError, status)
	default:
		return fmt.Errorf("%w: http %d: %s", core.ErrUpstreamServerError, status, body)
	}
}
