package dedupe

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"mrsummarizer/internal/config"
	"mrsummarizer/internal/constants"
	"mrsummarizer/internal/logger"
)

// NewStore builds the configured backend. When the redis backend is selected
// but unreachable, it falls back to the file backend with a logged warning
// rather than refusing to start; the poller keeps its exactly-once guarantee
// within this process either way.
//
// The returned client is non-nil only when the redis backend is active; the
// caller owns closing it and may register it with the health checker.
func NewStore(ctx context.Context, cfg config.DedupeConfig, log logger.Logger) (Store, *redis.Client, error) {
	switch cfg.Backend {
	case constants.DedupeBackendFile:
		log.Infow("Using file-backed dedupe store", "path", cfg.FilePath)
		return NewFileStore(cfg.FilePath, log), nil, nil

	case constants.DedupeBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			log.Warnw("Redis dedupe backend unreachable, falling back to file store",
				"addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
				"error", err,
			)
			return NewFileStore(cfg.FilePath, log), nil, nil
		}

		log.Infow("Using redis-backed dedupe store",
			"addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			"key_prefix", cfg.Redis.KeyPrefix,
		)
		return NewRedisStore(client, cfg.Redis.KeyPrefix), client, nil

	default:
		return nil, nil, fmt.Errorf("unknown dedupe backend: %s", cfg.Backend)
	}
}
