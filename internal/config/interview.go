package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/dermflow/pkg/log"
)

// InterviewConfig holds the tunables of the conversation pipeline. Cache
// keying ignores conversation context, so the whole cache sits behind
// CacheEnabled for deployments that want every turn generated fresh.
type InterviewConfig struct {
	TotalPhases      int `env:"INTERVIEW_TOTAL_PHASES" envDefault:"5"`
	MessagesPerPhase int `env:"INTERVIEW_MESSAGES_PER_PHASE" envDefault:"4"`

	CompressAfter   int `env:"INTERVIEW_COMPRESS_AFTER" envDefault:"12"`
	CompressionKeep int `env:"INTERVIEW_COMPRESSION_KEEP" envDefault:"10"`

	CacheEnabled   bool          `env:"INTERVIEW_CACHE_ENABLED" envDefault:"true"`
	CacheTTL       time.Duration `env:"INTERVIEW_CACHE_TTL" envDefault:"1h"`
	CacheSweepSize int           `env:"INTERVIEW_CACHE_SWEEP_SIZE" envDefault:"256"`

	SessionTTL    time.Duration `env:"INTERVIEW_SESSION_TTL" envDefault:"48h"`
	SweepInterval time.Duration `env:"INTERVIEW_SWEEP_INTERVAL" envDefault:"15m"`

	MaxTokens          int     `env:"INTERVIEW_MAX_TOKENS" envDefault:"1024"`
	Temperature        float64 `env:"INTERVIEW_TEMPERATURE" envDefault:"0.8"`
	SynthesisMaxTokens int     `env:"INTERVIEW_SYNTHESIS_MAX_TOKENS" envDefault:"2048"`
	SynthesisTemp      float64 `env:"INTERVIEW_SYNTHESIS_TEMPERATURE" envDefault:"0.2"`
}

func NewInterviewConfig(ctx context.Context) *InterviewConfig {
	c := &InterviewConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse interview config")
	}
	return c
}
