package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/school-directory/internal/config"
)

const codeReservationPrefix = "teacher-code:"

// Redis wraps the go-redis client.
type Redis struct {
	Client         *redis.Client
	reservationTTL time.Duration
}

// NewRedis connects to Redis using the provided configuration. It returns nil
// when no address is configured.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR not provided; code reservations disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client, reservationTTL: cfg.CodeReservationTTL}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// ReserveCode claims a teacher code for the reservation TTL. It returns false
// when another allocator holds the code.
func (r *Redis) ReserveCode(ctx context.Context, code string) (bool, error) {
	if r == nil || r.Client == nil {
		return true, nil
	}
	ttl := r.reservationTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return r.Client.SetNX(ctx, codeReservationPrefix+code, 1, ttl).Result()
}
