package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ilindan-dev/webhook-notifier/internal/config"
	repo "github.com/ilindan-dev/webhook-notifier/internal/domain/repository"
	"github.com/ilindan-dev/webhook-notifier/pkg/keybuilder"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Ensure DeliveryGuard implements the interface
var _ repo.DeliveryGuard = (*DeliveryGuard)(nil)

// setNXer is the part of the go-redis client the guard uses.
type setNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
}

// DeliveryGuard marks notification IDs as dispatched using SETNX with a TTL.
// Only a marker is stored, never the notification itself.
type DeliveryGuard struct {
	redis  setNXer
	ttl    time.Duration
	logger zerolog.Logger
}

// NewDeliveryGuard creates a new instance of the DeliveryGuard.
func NewDeliveryGuard(cfg *config.Config, logger *zerolog.Logger, redis *goredis.Client) *DeliveryGuard {
	return newDeliveryGuard(redis, cfg.Redis.DeliveryTTL, logger)
}

func newDeliveryGuard(redis setNXer, ttl time.Duration, logger *zerolog.Logger) *DeliveryGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DeliveryGuard{
		redis:  redis,
		ttl:    ttl,
		logger: logger.With().Str("layer", "redis_guard").Logger(),
	}
}

// Acquire claims id. It returns false if another delivery already claimed it.
func (g *DeliveryGuard) Acquire(ctx context.Context, id uuid.UUID) (bool, error) {
	key := keybuilder.RedisDeliveryKeyBuild(id)
	ok, err := g.redis.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		g.logger.Error().Err(err).Str("key", key).Msg("failed to set delivery marker in redis")
		return false, err
	}
	if !ok {
		g.logger.Info().Str("key", key).Msg("delivery marker already present")
	}
	return ok, nil
}
