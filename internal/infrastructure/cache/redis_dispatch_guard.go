package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/storefront/backend/internal/application/fulfillment"
)

// RedisDispatchGuard implements fulfillment.DispatchGuard using Redis.
// This is suitable for distributed deployments where multiple instances must
// not dispatch the same order concurrently.
type RedisDispatchGuard struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisDispatchGuard creates a new Redis-based dispatch guard
func NewRedisDispatchGuard(cfg RedisConfig, ttl time.Duration) (*RedisDispatchGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisDispatchGuardWithClient(client, "", ttl), nil
}

// NewRedisDispatchGuardWithClient creates a guard with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisDispatchGuardWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisDispatchGuard {
	if keyPrefix == "" {
		keyPrefix = "fulfillment:dispatch:"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisDispatchGuard{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// TryAcquire claims the dispatch slot for a remote order using SETNX, so the
// claim is atomic across instances
func (g *RedisDispatchGuard) TryAcquire(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) (bool, error) {
	key := g.keyPrefix + guardKey(tenantID, remoteOrderID)

	acquired, err := g.client.SetNX(ctx, key, "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire dispatch slot: %w", err)
	}

	return acquired, nil
}

// Release frees the dispatch slot. Best effort: if the delete fails the slot
// still expires with its TTL.
func (g *RedisDispatchGuard) Release(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) {
	key := g.keyPrefix + guardKey(tenantID, remoteOrderID)
	g.client.Del(ctx, key)
}

// Close closes the Redis client
func (g *RedisDispatchGuard) Close() error {
	return g.client.Close()
}

// Ensure RedisDispatchGuard implements DispatchGuard
var _ fulfillment.DispatchGuard = (*RedisDispatchGuard)(nil)
