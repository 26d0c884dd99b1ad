package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	filterOptionsKey = "stash:notes:filter_options"
	filterOptionsTTL = 5 * time.Minute
)

// FilterOptionsStorage 笔记筛选项缓存
type FilterOptionsStorage struct {
	redis *redis.Client
}

func NewFilterOptionsStorage(rds *redis.Client) *FilterOptionsStorage {
	return &FilterOptionsStorage{redis: rds}
}

// Get 未命中时返回 false
func (s *FilterOptionsStorage) Get(ctx context.Context, dest any) (bool, error) {
	raw, err := s.redis.Get(ctx, filterOptionsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FilterOptionsStorage) Set(ctx context.Context, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, filterOptionsKey, raw, filterOptionsTTL).Err()
}

func (s *FilterOptionsStorage) Invalidate(ctx context.Context) error {
	return s.redis.Del(ctx, filterOptionsKey).Err()
}
