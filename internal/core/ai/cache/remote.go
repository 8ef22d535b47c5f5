package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pfc-analyzer/internal/core/nutrition"

	"github.com/go-redis/redis/v8"
)

// remoteStore 選配的 Redis 緩存層。記憶體緩存永遠是權威來源，
// 這一層只在多實例部署時共享已計算的結果。
type remoteStore struct {
	client *redis.Client
}

// newRemoteStore 建立 Redis 連線並測試可達性
func newRemoteStore(addr string) (*remoteStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &remoteStore{client: client}, nil
}

// get 獲取遠端緩存
func (s *remoteStore) get(ctx context.Context, key string) (*nutrition.PFCResult, error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var result nutrition.PFCResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache: %w", err)
	}

	return &result, nil
}

// set 設置遠端緩存，TTL 與記憶體層一致
func (s *remoteStore) set(ctx context.Context, key string, result *nutrition.PFCResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := s.client.Set(ctx, s.redisKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// redisKey 生成遠端緩存鍵
func (s *remoteStore) redisKey(key string) string {
	return fmt.Sprintf("pfc:result:%s", key)
}

// close 關閉 Redis 連線
func (s *remoteStore) close() error {
	return s.client.Close()
}
