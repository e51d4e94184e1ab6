package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache records revoked admin tokens until they would have expired
type TokenCache interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type tokenCache struct {
	client *redis.Client
}

// NewTokenCache creates a new token cache
func NewTokenCache(client *redis.Client) TokenCache {
	return &tokenCache{client: client}
}

func (c *tokenCache) key(tokenID string) string {
	return fmt.Sprintf("auth:revoked:%s", tokenID)
}

func (c *tokenCache) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired, nothing to remember
		return nil
	}
	return c.client.Set(ctx, c.key(tokenID), 1, ttl).Err()
}

func (c *tokenCache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(tokenID)).Result()
	return n > 0, err
}
