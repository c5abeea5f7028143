package bootstrap

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hoehoe5252-yong/yong2/internal/config"
	"github.com/hoehoe5252-yong/yong2/internal/events"
	"github.com/hoehoe5252-yong/yong2/internal/logger"
)

const redisPingTimeout = 5 * time.Second

// SetupEventPublisher connects to Redis and creates the crawl-run event
// publisher. Returns nil when events are disabled or Redis is
// unreachable; a nil publisher is a no-op, so crawling proceeds without
// events rather than failing startup.
func SetupEventPublisher(ctx context.Context, cfg *config.Config, log logger.Logger) *events.Publisher {
	if !cfg.Redis.Enabled {
		log.Info("Event publishing disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, continuing without event publishing",
			logger.String("address", cfg.Redis.Address),
			logger.Error(err),
		)
		client.Close()
		return nil
	}

	log.Info("Event publisher connected",
		logger.String("address", cfg.Redis.Address),
		logger.String("stream", events.StreamName),
	)
	return events.NewPublisher(client, log)
}
