package xkv

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Store redis封装，用于鉴权缓存、告警去重与账号统计
type Store struct {
	client *redis.Client
}

func NewStore(addr, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		PoolTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "ping redis")
	}
	return &Store{client: client}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *Store) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

// SetNX 返回true表示首次写入
func (s *Store) SetNX(ctx context.Context, key, value string, expiration time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, expiration).Result()
}

func (s *Store) HIncrBy(ctx context.Context, key, field string, incr int64) error {
	return s.client.HIncrBy(ctx, key, field, incr).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
