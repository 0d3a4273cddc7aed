package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"website-chatbot-builder/internal/logger"
	"website-chatbot-builder/internal/retrieval"
	"website-chatbot-builder/internal/telemetry"
	"website-chatbot-builder/utils"
)

const (
	embeddingCachePrefix = "emb:"
	embeddingCacheTTL    = 7 * 24 * time.Hour
)

// CachedEmbedder wraps an embedding gateway with a Redis cache keyed by a
// fingerprint of model name and text. Cache failures degrade to a direct
// gateway call; they never fail the embedding itself.
type CachedEmbedder struct {
	inner   retrieval.Embedder
	rdb     *redis.Client
	model   string
	metrics *telemetry.Metrics
}

func NewCachedEmbedder(inner retrieval.Embedder, rdb *redis.Client, model string, metrics *telemetry.Metrics) *CachedEmbedder {
	return &CachedEmbedder{
		inner:   inner,
		rdb:     rdb,
		model:   model,
		metrics: metrics,
	}
}

// EmbedText implements retrieval.Embedder.
func (c *CachedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := embeddingCachePrefix + utils.TextFingerprint(c.model, text)

	if vec, ok := c.lookup(ctx, key); ok {
		c.recordLookup(true)
		return vec, nil
	}
	c.recordLookup(false)

	vec, err := c.inner.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, vec)
	return vec, nil
}

func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Warn("embedding cache read failed", "error", err)
		return nil, false
	}

	payload, err := utils.DecompressData(raw, utils.CompressionBrotli)
	if err != nil {
		logger.Warn("embedding cache entry corrupt", "key", key, "error", err)
		return nil, false
	}

	var vec []float32
	if err := json.Unmarshal(payload, &vec); err != nil {
		logger.Warn("embedding cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return vec, true
}

func (c *CachedEmbedder) store(ctx context.Context, key string, vec []float32) {
	payload, err := json.Marshal(vec)
	if err != nil {
		logger.Warn("embedding cache marshal failed", "error", err)
		return
	}
	compressed, err := utils.CompressData(payload, utils.CompressionBrotli)
	if err != nil {
		logger.Warn("embedding cache compress failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, compressed, embeddingCacheTTL).Err(); err != nil {
		logger.Warn("embedding cache write failed", "error", err)
	}
}

func (c *CachedEmbedder) recordLookup(hit bool) {
	if c.metrics != nil {
		c.metrics.RecordEmbeddingCache(hit)
	}
}

var _ retrieval.Embedder = (*CachedEmbedder)(nil)
