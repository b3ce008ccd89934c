// Package cache memoizes categorization completions in Redis so the same
// poster text is not sent to the model twice within the TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/poster-outreach/internal/llm"
	"github.com/joseph-ayodele/poster-outreach/internal/metrics"
)

const keyPrefix = "poster:llm:"

// Completer wraps another llm.Completer with a Redis read-through cache.
// Redis errors are logged and fall through to the wrapped completer.
type Completer struct {
	next   llm.Completer
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func New(next llm.Completer, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Completer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Completer{next: next, redis: client, ttl: ttl, logger: logger}
}

// Name reports the wrapped provider so logs and metrics stay per-provider.
func (c *Completer) Name() string { return c.next.Name() }

func (c *Completer) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	key := Key(c.next.Name(), req)

	cached, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		metrics.CacheLookupsTotal.WithLabelValues(metrics.ResultHit).Inc()
		c.logger.Debug("llm.cache.hit", "provider", c.next.Name(), "key", key)
		return cached, nil
	case errors.Is(err, redis.Nil):
		metrics.CacheLookupsTotal.WithLabelValues(metrics.ResultMiss).Inc()
	default:
		metrics.CacheLookupsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		c.logger.Warn("llm.cache.get.failed", "key", key, "error", err)
	}

	content, err := c.next.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	if err := c.redis.Set(ctx, key, content, c.ttl).Err(); err != nil {
		c.logger.Warn("llm.cache.set.failed", "key", key, "error", err)
	}
	return content, nil
}

// Key derives the cache key from the provider and the full request.
func Key(provider string, req llm.CompletionRequest) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(req.System))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	return keyPrefix + provider + ":" + hex.EncodeToString(h.Sum(nil))
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
