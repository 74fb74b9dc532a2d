package cache

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zenithstudio/backend/internal/infrastructure/config"
)

// RedisOTPStore implements identity.OTPStore using Redis. Codes live
// under a per-email key with a TTL, so they survive restarts and are
// shared across instances, and expiry needs no sweeper.
type RedisOTPStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisOTPStore creates a Redis-backed OTP store
func NewRedisOTPStore(cfg config.RedisConfig) (*RedisOTPStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisOTPStore{
		client:    client,
		keyPrefix: "auth:otp:",
	}, nil
}

// NewRedisOTPStoreWithClient creates a store with an existing Redis
// client, useful for testing or client sharing.
func NewRedisOTPStoreWithClient(client *redis.Client, keyPrefix string) *RedisOTPStore {
	if keyPrefix == "" {
		keyPrefix = "auth:otp:"
	}
	return &RedisOTPStore{client: client, keyPrefix: keyPrefix}
}

// Issue stores a code for the email, replacing any earlier one
func (s *RedisOTPStore) Issue(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+email, code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

// Verify checks the code and consumes it on success so it cannot be
// replayed. A missing or expired code verifies as false, not an error.
func (s *RedisOTPStore) Verify(ctx context.Context, email, code string) (bool, error) {
	key := s.keyPrefix + email
	stored, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read otp: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("failed to consume otp: %w", err)
	}
	return true, nil
}

// Invalidate discards any pending code for the email
func (s *RedisOTPStore) Invalidate(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, s.keyPrefix+email).Err(); err != nil {
		return fmt.Errorf("failed to invalidate otp: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisOTPStore) Close() error {
	return s.client.Close()
}
