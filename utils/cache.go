// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"havenly/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AuthCacheClient is the dedicated client for the token deny-list.
var AuthCacheClient *redis.Client

// InitAuthCache initializes the Redis client for authorization caching.
// A failed ping is logged; the client is still returned so that Redis can
// come up after the API.
func InitAuthCache() *redis.Client {
	AuthCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := AuthCacheClient.Ping(ctx).Err(); err != nil {
		GetLogger().Warn("Failed to connect to Redis (Auth Cache)", zap.Error(err))
	}
	return AuthCacheClient
}

// GetAuthCacheClient returns the Redis client for authorization caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}

// TokenStore remembers revoked tokens until they expire.
type TokenStore interface {
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// RedisTokenStore is the production TokenStore.
type RedisTokenStore struct {
	Client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{Client: client}
}

func (s *RedisTokenStore) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.Client.Set(ctx, RevokedTokenPrefix+tokenHash, 1, ttl).Err()
}

func (s *RedisTokenStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := s.Client.Exists(ctx, RevokedTokenPrefix+tokenHash).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
