package cache

import (
	"context"
	"crypto/sha256"
	"delivery-optimization-service/internal/domain"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// DefaultMatrixTTL bounds how long a fetched matrix stays valid. Road
// distances drift slowly; a short TTL keeps repeat runs cheap without
// serving stale data for long.
const DefaultMatrixTTL = 15 * time.Minute

// MatrixKey derives a stable cache key from an ordered coordinate list.
// Order matters: the same set in a different order indexes a different
// matrix layout.
func MatrixKey(coords []domain.Coordinates) string {
	h := sha256.New()
	for _, c := range coords {
		fmt.Fprintf(h, "%.7f,%.7f;", c.Lon, c.Lat)
	}
	return "matrix:" + hex.EncodeToString(h.Sum(nil))
}

// RedisMatrixCache stores whole distance matrices keyed by coordinate set.
// It sits in front of the external matrix API; all methods are safe for
// concurrent use.
type RedisMatrixCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisMatrixCache(redisURL string) (*RedisMatrixCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("matrix cache: parse redis url: %w", err)
	}
	return &RedisMatrixCache{rdb: redis.NewClient(opt), ttl: DefaultMatrixTTL}, nil
}

// NewRedisMatrixCacheWithClient wraps an existing client; used by tests.
func NewRedisMatrixCacheWithClient(rdb *redis.Client, ttl time.Duration) *RedisMatrixCache {
	if ttl <= 0 {
		ttl = DefaultMatrixTTL
	}
	return &RedisMatrixCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached matrix for key, reporting whether it was present.
func (c *RedisMatrixCache) Get(ctx context.Context, key string) (domain.DistanceMatrix, bool, error) {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("matrix cache get %q: %w", key, err)
	}

	var m domain.DistanceMatrix
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, false, fmt.Errorf("matrix cache decode %q: %w", key, err)
	}
	return m, true, nil
}

// Put stores the matrix under key with the cache TTL.
func (c *RedisMatrixCache) Put(ctx context.Context, key string, m domain.DistanceMatrix) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("matrix cache encode %q: %w", key, err)
	}

	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("matrix cache put %q: %w", key, err)
	}
	return nil
}
