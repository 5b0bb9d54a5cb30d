package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sandevgo/dermflow/internal/cache"
	"github.com/sandevgo/dermflow/internal/config"
	"github.com/sandevgo/dermflow/internal/core"
	"github.com/sandevgo/dermflow/internal/interview"
	"github.com/sandevgo/dermflow/internal/providers/enrich"
	"github.com/sandevgo/dermflow/internal/providers/llm"
	"github.com/sandevgo/dermflow/internal/storage/sqlite"
	"github.com/sandevgo/dermflow/internal/transport/httpapi"
	"github.com/sandevgo/dermflow/pkg/log"
	"github.com/sandevgo/dermflow/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	initEnv(ctx)

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	ivCfg := config.NewInterviewConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	sessions := sqlite.NewSessionRepo(db, ivCfg.SessionTTL)
	profiles := sqlite.NewProfileRepo(db)

	// 3. Reply cache
	replies := initCache(ctx, appCfg, ivCfg)

	// 4. Generation provider
	generator, err := llm.NewProvider(ctx, appCfg.LLMProvider)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize generation provider")
	}

	// 5. Orchestrator and background sweeper
	orchestrator := interview.NewOrchestrator(sessions, profiles, generator, replies, ivCfg)
	services = append(services, interview.NewSweeper(sessions, ivCfg.SweepInterval))

	// 6. Environment enrichment
	var enricher core.EnvironmentProvider
	if appCfg.EnrichmentEnabled {
		enricher = enrich.NewOpenMeteo()
	}

	// 7. HTTP transport
	handler := httpapi.NewHandler(orchestrator, profiles, enricher)
	services = append(services, httpapi.NewServer(appCfg.HTTPAddr, httpapi.NewRouter(handler)))

	return services
}

func initCache(ctx context.Context, appCfg *config.AppConfig, ivCfg *config.InterviewConfig) core.ReplyCache {
	logger := log.FromCtx(ctx)

	switch appCfg.CacheDriver {
	case "redis":
		redisCfg := config.NewRedisConfig(ctx)
		client := redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", redisCfg.Addr).Msg("failed to connect to redis")
		}
		logger.Info().Str("addr", redisCfg.Addr).Msg("using redis reply cache")
		return cache.NewRedis(client, ivCfg.CacheTTL)
	case "memory":
		return cache.NewMemory(ivCfg.CacheTTL, ivCfg.CacheSweepSize)
	default:
		logger.Fatal().Str("driver", appCfg.CacheDriver).Msg("unknown cache driver")
		return nil
	}
}

func initEnv(ctx context.Context) {
	logger := log.FromCtx(ctx)

	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		logger.Warn().Err(err).Msg("failed to load .env file")
		return
	}
	logger.Debug().Msg("loaded .env file")
}
