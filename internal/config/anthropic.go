package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/dermflow/pkg/log"
)

type AnthropicConfig struct {
	APIKey  string        `env:"ANTHROPIC_API_KEY,required,notEmpty"`
	Model   string        `env:"ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-20250514"`
	BaseURL string        `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com"`
	Timeout time.Duration `env:"ANTHROPIC_TIMEOUT" envDefault:"25s"`
}

func NewAnthropicConfig(ctx context.Context) *AnthropicConfig {
	c := &AnthropicConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Anthropic config")
	}
	return c
}
