package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed store. Values never expire.
type RedisStore struct {
	client    *redis.Client
	namespace string
	timeout   time.Duration
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string        // Redis connection URL (e.g., "redis://localhost:6379/0")
	Namespace string        // Prepended to every key (default: none)
	Timeout   time.Duration // Per-command timeout (default: 5s)
}

const defaultRedisTimeout = 5 * time.Second

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	s := NewRedisStoreFromClient(redis.NewClient(opts), cfg.Namespace)
	if cfg.Timeout > 0 {
		s.timeout = cfg.Timeout
	}

	if err := s.Ping(); err != nil {
		_ = s.client.Close()
		return nil, err
	}
	return s, nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing Redis client.
func NewRedisStoreFromClient(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{
		client:    client,
		namespace: namespace,
		timeout:   defaultRedisTimeout,
	}
}

// Get retrieves a value from Redis. Connection errors read as a miss.
func (s *RedisStore) Get(key string) (string, bool) {
	ctx, cancel := s.context()
	defer cancel()

	val, err := s.client.Get(ctx, s.namespace+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a value in Redis without expiry.
func (s *RedisStore) Set(key string, value string) error {
	ctx, cancel := s.context()
	defer cancel()
	return s.client.Set(ctx, s.namespace+key, value, 0).Err()
}

// Remove deletes a key from Redis.
func (s *RedisStore) Remove(key string) error {
	ctx, cancel := s.context()
	defer cancel()
	err := s.client.Del(ctx, s.namespace+key).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// Keys scans for keys with the given prefix. The namespace is stripped from
// the result.
func (s *RedisStore) Keys(prefix string) ([]string, error) {
	ctx, cancel := s.context()
	defer cancel()

	var keys []string
	iter := s.client.Scan(ctx, 0, escapeGlob(s.namespace+prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.namespace))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping() error {
	ctx, cancel := s.context()
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// Client returns the underlying Redis client.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var _ Backend = (*RedisStore)(nil)
