package queue

import (
	"strings"

	"github.com/hibiken/asynq"

	"website-chatbot-builder/internal/config"
	"website-chatbot-builder/internal/logger"
)

// RedisConnOpt builds the asynq connection options from the shared Redis
// configuration. REDIS_URL may be a full URL or plain host:port.
func RedisConnOpt(cfg *config.Config) asynq.RedisConnOpt {
	if strings.HasPrefix(cfg.RedisURL, "redis://") || strings.HasPrefix(cfg.RedisURL, "rediss://") {
		opt, err := asynq.ParseRedisURI(cfg.RedisURL)
		if err == nil {
			return opt
		}
		logger.Warn("failed to parse REDIS_URL for task queue, falling back to host:port", "error", err)
	}
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}
