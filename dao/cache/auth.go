package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	oauthStateKey  = "stash:oauth:state:%s"
	deniedTokenKey = "stash:jwt:denied:%s"
)

// OAuthStateStorage 第三方登录 state, 一次性使用
type OAuthStateStorage struct {
	redis *redis.Client
}

func NewOAuthStateStorage(rds *redis.Client) *OAuthStateStorage {
	return &OAuthStateStorage{redis: rds}
}

func (s *OAuthStateStorage) Save(ctx context.Context, state, provider string, ttl time.Duration) error {
	return s.redis.Set(ctx, fmt.Sprintf(oauthStateKey, state), provider, ttl).Err()
}

// Consume 读取并删除, 不存在时 ok 为 false
func (s *OAuthStateStorage) Consume(ctx context.Context, state string) (provider string, ok bool, err error) {
	key := fmt.Sprintf(oauthStateKey, state)
	pipe := s.redis.TxPipeline()
	get := pipe.Get(ctx, key)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return "", false, err
	}
	provider, err = get.Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return provider, true, nil
}

// TokenDenyList 退出登录后的 refresh token
type TokenDenyList struct {
	redis *redis.Client
}

func NewTokenDenyList(rds *redis.Client) *TokenDenyList {
	return &TokenDenyList{redis: rds}
}

func (d *TokenDenyList) Deny(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.redis.Set(ctx, fmt.Sprintf(deniedTokenKey, jti), 1, ttl).Err()
}

func (d *TokenDenyList) IsDenied(ctx context.Context, jti string) (bool, error) {
	n, err := d.redis.Exists(ctx, fmt.Sprintf(deniedTokenKey, jti)).Result()
	return n > 0, err
}
