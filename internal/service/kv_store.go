package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go_task_quest/internal/config"

	goredis "github.com/redis/go-redis/v9"
)

// KVStore は TTL 付きの文字列ストア。ログアウトの失効リストと外部 API のキャッシュで使う
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// NewKVStore は redis.addr があれば Redis、なければプロセス内メモリを返す
func NewKVStore(cfg *config.Config, logger *slog.Logger) (KVStore, error) {
	if cfg.Redis.Addr == "" {
		logger.Warn("Redis address not set, using in-memory store (revocations are not shared between instances)")
		return NewMemoryKVStore(), nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
	}
	logger.Info("Redis connection established", "addr", cfg.Redis.Addr)
	return &redisKVStore{rdb: rdb}, nil
}

type redisKVStore struct {
	rdb *goredis.Client
}

func (s *redisKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *redisKVStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *redisKVStore) Close() error {
	return s.rdb.Close()
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// memoryKVStore は単一プロセス用。期限切れは読み出し時に捨てる
type memoryKVStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryKVStore() KVStore {
	return &memoryKVStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (s *memoryKVStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *memoryKVStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *memoryKVStore) Close() error { return nil }
