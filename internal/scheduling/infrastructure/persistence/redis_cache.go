package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

const cacheKeyPrefix = "circadia:schedule:"

// DefaultCacheTTL bounds how long a cached schedule stays valid.
const DefaultCacheTTL = 15 * time.Minute

// RequestDigest produces a stable hash of a schedule request. Identical
// requests share a digest, so repeated generations hit the cache.
func RequestDigest(req domain.ScheduleRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request for digest: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// ScheduleCache caches generated schedules in Redis keyed by request digest.
type ScheduleCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewScheduleCache connects to Redis and verifies the connection.
func NewScheduleCache(ctx context.Context, redisURL string, ttl time.Duration, logger *slog.Logger) (*ScheduleCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &ScheduleCache{client: client, ttl: ttl, logger: logger}, nil
}

// Get returns the cached schedule for the digest, or (nil, false) on a miss.
func (c *ScheduleCache) Get(ctx context.Context, digest string) (*domain.GeneratedSchedule, bool, error) {
	payload, err := c.client.Get(ctx, cacheKeyPrefix+digest).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var record scheduleRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		// A corrupt entry behaves like a miss.
		c.logger.Warn("cache entry unreadable, treating as miss", "digest", digest, "error", err)
		return nil, false, nil
	}
	schedule, err := fromScheduleRecord(record)
	if err != nil {
		c.logger.Warn("cache entry unreadable, treating as miss", "digest", digest, "error", err)
		return nil, false, nil
	}
	return schedule, true, nil
}

// Set stores the schedule under the digest with the cache TTL.
func (c *ScheduleCache) Set(ctx context.Context, digest string, schedule *domain.GeneratedSchedule) error {
	payload, err := json.Marshal(toScheduleRecord(schedule))
	if err != nil {
		return fmt.Errorf("marshal schedule for cache: %w", err)
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+digest, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *ScheduleCache) Close() error {
	return c.client.Close()
}
