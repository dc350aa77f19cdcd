package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront:"

// RedisStore implements Store using Redis.
//
// Key format: storefront:<country_code>, e.g. storefront:GB
// Value: the storefront host
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ctx:    ctx,
	}, nil
}

func redisKey(code string) string {
	return redisKeyPrefix + code
}

// FindByCountry implements the Store interface
func (s *RedisStore) FindByCountry(countryCode string) (string, error) {
	code := normalizeCode(countryCode)

	val, err := s.client.Get(s.ctx, redisKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%w: %s", ErrCountryNotFound, code)
		}
		return "", fmt.Errorf("Redis query failed: %w", err)
	}

	return val, nil
}

// Set adds or updates the storefront for a country (no expiration)
func (s *RedisStore) Set(countryCode, storefront string) error {
	code := normalizeCode(countryCode)
	if code == "" || storefront == "" {
		return fmt.Errorf("country code and storefront are required")
	}

	if err := s.client.Set(s.ctx, redisKey(code), storefront, 0).Err(); err != nil {
		return fmt.Errorf("failed to store in Redis: %w", err)
	}
	return nil
}

// LoadFromCSV copies every row of a storefront CSV file into Redis
// and returns the number of rows written
func (s *RedisStore) LoadFromCSV(csvPath string) (int, error) {
	csvStore, err := NewCSVStore(csvPath)
	if err != nil {
		return 0, fmt.Errorf("failed to load CSV: %w", err)
	}
	defer csvStore.Close()

	count := 0
	pipe := s.client.Pipeline()
	for code, storefront := range csvStore.Entries() {
		pipe.Set(s.ctx, redisKey(code), storefront, 0)
		count++
	}
	if _, err := pipe.Exec(s.ctx); err != nil {
		return 0, fmt.Errorf("failed to store storefronts: %w", err)
	}

	return count, nil
}

// IsEmpty reports whether no storefront keys exist yet
func (s *RedisStore) IsEmpty() (bool, error) {
	keys, _, err := s.client.Scan(s.ctx, 0, redisKeyPrefix+"*", 100).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check Redis keys: %w", err)
	}
	return len(keys) == 0, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
