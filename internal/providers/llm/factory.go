package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/dermflow/internal/config"
	"github.com/sandevgo/dermflow/internal/core"
	"github.com/sandevgo/dermflow/pkg/log"
)

// NewProvider creates the configured generation provider. The mock provider
// runs the service without an API key for local development.
func NewProvider(ctx context.Context, name string) (core.Generator, error) {
	log.FromCtx(ctx).Info().Str("provider", name).Msg("starting generation provider")

	switch name {
	case "anthropic":
		return NewAnthropic(config.NewAnthropicConfig(ctx)), nil
	case "mock":
		return NewMock(
			"Thanks for sharing! How does your skin usually feel by the end of the day?\n"+
				"[SUGGESTIONS]\n- Oily and shiny by midday\n- Dry and tight all over\n- Honestly a bit of both\n[/SUGGESTIONS]",
			"Got it. What does your current routine look like, morning and evening?\n"+
				"[SUGGESTIONS]\n- Just cleanser and moisturizer\n- A full multi-step routine\n- I don't really have one\n[/SUGGESTIONS]",
		), nil
	default:
		return nil, fmt.Errorf("unknown generation provider: %s", name)
	}
}
