package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const replyKeyPrefix = "dermflow:reply:"

// Redis is the shared reply cache for multi-instance deployments. Redis
// expires keys itself, so no sweep is needed here.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, replyKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		// A broken cache degrades to a miss; the turn still works.
		log.Ctx(ctx).Warn().Err(err).Msg("reply cache read failed")
		return "", false
	}
	return val, true
}

func (r *Redis) Put(ctx context.Context, key string, reply string) {
	if err := r.client.Set(ctx, replyKeyPrefix+key, reply, r.ttl).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("reply cache write failed")
	}
}
