package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"faucetdrop-bot/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	// claimKeyPrefix is the Redis key prefix for claim records.
	claimKeyPrefix = "faucetdrop:claim:"

	// attemptKeyPrefix is the Redis key prefix for throttle attempts.
	attemptKeyPrefix = "faucetdrop:attempt:"
)

// RedisClaimStore implements ClaimStore on Redis. Claim records expire
// together with the cooldown window and throttle marks with the throttle
// window, so state survives process restarts and cleans itself up.
type RedisClaimStore struct {
	client   *redis.Client
	cooldown time.Duration
	throttle time.Duration
}

// RedisClaimStoreConfig holds configuration for the Redis claim store.
type RedisClaimStoreConfig struct {
	Addr     string
	Password string
	DB       int
	Cooldown time.Duration
	Throttle time.Duration
}

// NewRedisClaimStore creates a Redis-backed claim store.
func NewRedisClaimStore(cfg RedisClaimStoreConfig) (*RedisClaimStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Printf("[RedisClaimStore] Initialized - DB:%d, cooldown:%v, throttle:%v",
		cfg.DB, cfg.Cooldown, cfg.Throttle)

	return &RedisClaimStore{
		client:   client,
		cooldown: cfg.Cooldown,
		throttle: cfg.Throttle,
	}, nil
}

func claimKey(userID int64) string {
	return fmt.Sprintf("%s%d", claimKeyPrefix, userID)
}

func attemptKey(userID int64) string {
	return fmt.Sprintf("%s%d", attemptKeyPrefix, userID)
}

// Get retrieves the claim record for a user.
func (s *RedisClaimStore) Get(ctx context.Context, userID int64) (*model.ClaimRecord, error) {
	jsonData, err := s.client.Get(ctx, claimKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claim record: %w", err)
	}

	var rec model.ClaimRecord
	if err := json.Unmarshal(jsonData, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse claim record: %w", err)
	}

	return &rec, nil
}

// Put overwrites the claim record for the record's user. The key expires
// with the cooldown window since an expired record means eligible anyway.
func (s *RedisClaimStore) Put(ctx context.Context, rec *model.ClaimRecord) error {
	jsonData, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize claim record: %w", err)
	}

	if err := s.client.Set(ctx, claimKey(rec.UserID), jsonData, s.cooldown).Err(); err != nil {
		return fmt.Errorf("failed to store claim record: %w", err)
	}
	return nil
}

// RecordAttempt marks the start of the retry-throttle window.
func (s *RedisClaimStore) RecordAttempt(ctx context.Context, userID int64, at time.Time) error {
	if err := s.client.Set(ctx, attemptKey(userID), at.Unix(), s.throttle).Err(); err != nil {
		return fmt.Errorf("failed to store attempt mark: %w", err)
	}
	return nil
}

// LastAttempt returns when the user last started a payout attempt.
func (s *RedisClaimStore) LastAttempt(ctx context.Context, userID int64) (time.Time, error) {
	epoch, err := s.client.Get(ctx, attemptKey(userID)).Int64()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get attempt mark: %w", err)
	}

	return time.Unix(epoch, 0), nil
}

// Close closes the Redis connection.
func (s *RedisClaimStore) Close() error {
	return s.client.Close()
}

// Ensure RedisClaimStore implements ClaimStore
var _ ClaimStore = (*RedisClaimStore)(nil)
