package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/dermflow/pkg/log"
)

type AppConfig struct {
	HTTPAddr     string `env:"DERMFLOW_HTTP_ADDR" envDefault:":8080"`
	DatabasePath string `env:"DERMFLOW_DB_PATH" envDefault:"dermflow.db"`

	// Cache driver: "memory" for single-instance, "redis" so several
	// instances share hits.
	CacheDriver string `env:"DERMFLOW_CACHE_DRIVER" envDefault:"memory"`

	// Generation provider: "anthropic" or "mock".
	LLMProvider string `env:"DERMFLOW_LLM_PROVIDER" envDefault:"anthropic"`

	// Environment enrichment is optional; without it geolocation is ignored.
	EnrichmentEnabled bool `env:"DERMFLOW_ENRICHMENT_ENABLED" envDefault:"true"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse app config")
	}
	return c
}
