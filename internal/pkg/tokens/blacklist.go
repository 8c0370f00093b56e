package tokens

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "blacklist:"

// Blacklist remembers revoked token ids until their expiry.
type Blacklist interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

type RedisBlacklist struct {
	client *redis.Client
}

// NewRedis connects to redis and waits until it answers PING.
func NewRedis(ctx context.Context, addr, password string, db int) (*RedisBlacklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	err := backoff.Retry(
		func() error {
			return client.Ping(ctx).Err()
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 10),
			ctx,
		),
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBlacklist{client: client}, nil
}

func (b *RedisBlacklist) Close() error {
	return b.client.Close()
}

func (b *RedisBlacklist) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, keyPrefix+tokenID, "1", ttl).Err()
}

func (b *RedisBlacklist) Contains(ctx context.Context, tokenID string) (bool, error) {
	_, err := b.client.Get(ctx, keyPrefix+tokenID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemoryBlacklist is used when redis is not configured.
type MemoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemory() *MemoryBlacklist {
	return &MemoryBlacklist{entries: make(map[string]time.Time), now: time.Now}
}

func (b *MemoryBlacklist) Add(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for id, exp := range b.entries {
		if !exp.After(now) {
			delete(b.entries, id)
		}
	}
	b.entries[tokenID] = now.Add(ttl)
	return nil
}

func (b *MemoryBlacklist) Contains(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	exp, ok := b.entries[tokenID]
	return ok && exp.After(b.now()), nil
}
