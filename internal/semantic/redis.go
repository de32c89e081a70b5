package semantic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/applicant-matcher/internal/logger"
	"github.com/spigell/applicant-matcher/internal/similarity"
)

const defaultCachePrefix = "applicant-matcher"

// RedisOptions configures the redis connection and key layout of the vector cache.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
	// Model is part of the key so vectors of different models never mix.
	Model string
}

// NewRedisClient opens a client for opts. Connectivity is checked lazily by the first command.
func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// RedisCache stores vectors produced by an inner Embedder in redis.
// Redis failures are logged and fall through to the inner Embedder.
type RedisCache struct {
	client redis.Cmdable
	inner  Embedder
	opts   RedisOptions
	logger *zap.Logger
}

// NewRedisCache wraps inner with a redis-backed cache.
func NewRedisCache(client redis.Cmdable, inner Embedder, opts RedisOptions, log *zap.Logger) *RedisCache {
	if strings.TrimSpace(opts.Prefix) == "" {
		opts.Prefix = defaultCachePrefix
	}
	return &RedisCache{
		client: client,
		inner:  inner,
		opts:   opts,
		logger: logger.WithFields(log, zap.String("cache", "redis")),
	}
}

// Key returns the redis key holding the vector for text.
func (c *RedisCache) Key(text string) string {
	sum := sha256.Sum256([]byte(similarity.Normalize(text)))
	return fmt.Sprintf("%s:embedding:%s:%s", c.opts.Prefix, c.opts.Model, hex.EncodeToString(sum[:]))
}

func (c *RedisCache) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.Key(text)

	vector, err := c.lookup(ctx, key)
	switch {
	case err == nil:
		return vector, nil
	case errors.Is(err, ErrCacheMiss):
	default:
		c.logger.Warn("reading cached embedding", zap.String("key", key), zap.Error(err))
	}

	vector, err = c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.store(ctx, key, vector); err != nil {
		c.logger.Warn("caching embedding", zap.String("key", key), zap.Error(err))
	}

	return vector, nil
}

func (c *RedisCache) lookup(ctx context.Context, key string) ([]float32, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var vector []float32
	if err := json.Unmarshal(raw, &vector); err != nil {
		return nil, fmt.Errorf("decoding cached vector: %w", err)
	}
	if len(vector) == 0 {
		return nil, ErrCacheMiss
	}

	return vector, nil
}

func (c *RedisCache) store(ctx context.Context, key string, vector []float32) error {
	if len(vector) == 0 {
		return nil
	}

	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("encoding vector: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.opts.TTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}
