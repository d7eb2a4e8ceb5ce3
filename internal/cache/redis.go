package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"golden-anniversary-server/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient 根据配置连接 Redis；未启用或不可用时返回 nil，调用方降级为内存模式。
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Printf("⚠️ Redis 不可用，降级为内存模式: %v", err)
		return nil
	}

	log.Printf("✅ Redis 已连接: %s (db=%d)", cfg.Addr, cfg.DB)
	return client
}

// RedisKey 基于前缀拼接 Redis 键名。
func RedisKey(prefix string, parts ...string) string {
	if prefix == "" {
		prefix = "golden_anniversary"
	}
	key := prefix
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 使用 Redis 作为视图缓存后端，多实例部署时失效信号可以共享。
func NewRedisStore(client *redis.Client, prefix string) Store {
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, RedisKey(s.prefix, key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, RedisKey(s.prefix, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *redisStore) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Incr(ctx, RedisKey(s.prefix, key)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr: %w", err)
	}
	return n, nil
}

func (s *redisStore) GetInt(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Get(ctx, RedisKey(s.prefix, key)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get int: %w", err)
	}
	return n, nil
}
