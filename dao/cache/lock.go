package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock 基于 SetNX 的短期互斥锁, 防止重复提交
type Lock struct {
	redis *redis.Client
}

func NewLock(rds *redis.Client) *Lock {
	return &Lock{redis: rds}
}

func (l *Lock) key(name string) string {
	return fmt.Sprintf("stash:lock:%s", name)
}

// TryLock 获取成功返回 true
func (l *Lock) TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return l.redis.SetNX(ctx, l.key(name), 1, ttl).Result()
}

func (l *Lock) Unlock(ctx context.Context, name string) error {
	return l.redis.Del(ctx, l.key(name)).Err()
}
