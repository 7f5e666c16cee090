// internal/domain/customer/blacklist.go
package customer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist remembers access tokens ended by logout until they expire
type TokenBlacklist struct {
	redisClient *redis.Client
}

// NewTokenBlacklist creates a Redis-backed blacklist
func NewTokenBlacklist(redisClient *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{redisClient: redisClient}
}

func blacklistKey(tokenID string) string {
	return fmt.Sprintf("auth:revoked:%s", tokenID)
}

// Revoke blacklists a token id for the given lifetime
func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired, nothing to remember
		return nil
	}
	return b.redisClient.Set(ctx, blacklistKey(tokenID), "1", ttl).Err()
}

// IsRevoked reports whether a token id was blacklisted
func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := b.redisClient.Get(ctx, blacklistKey(tokenID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
