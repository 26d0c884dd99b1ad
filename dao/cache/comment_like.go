package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	commentLikersKey = "stash:comment:likers:%d"
	commentLikersTTL = 30 * time.Minute
	// loadedMarker 标记集合已从数据库完整加载, 空集合也能命中缓存
	loadedMarker = "0"
)

// CommentLikeStorage 缓存每条评论的点赞用户集合
type CommentLikeStorage struct {
	redis *redis.Client
}

func NewCommentLikeStorage(rds *redis.Client) *CommentLikeStorage {
	return &CommentLikeStorage{redis: rds}
}

func (s *CommentLikeStorage) key(commentID uint64) string {
	return fmt.Sprintf(commentLikersKey, commentID)
}

// IsLiked cached 为 false 表示缓存未命中, 需要回源
func (s *CommentLikeStorage) IsLiked(ctx context.Context, commentID, userID uint64) (liked bool, cached bool, err error) {
	key := s.key(commentID)
	pipe := s.redis.Pipeline()
	loaded := pipe.SIsMember(ctx, key, loadedMarker)
	member := pipe.SIsMember(ctx, key, strconv.FormatUint(userID, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, false, err
	}
	if !loaded.Val() {
		return false, false, nil
	}
	return member.Val(), true, nil
}

// Load 用数据库中的点赞用户回填缓存
func (s *CommentLikeStorage) Load(ctx context.Context, commentID uint64, userIDs []uint64) error {
	key := s.key(commentID)
	members := make([]any, 0, len(userIDs)+1)
	members = append(members, loadedMarker)
	for _, uid := range userIDs {
		members = append(members, strconv.FormatUint(uid, 10))
	}
	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, commentLikersTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Liked 点赞后更新, 未加载的集合不写入
func (s *CommentLikeStorage) Liked(ctx context.Context, commentID, userID uint64) error {
	return s.update(ctx, commentID, userID, true)
}

func (s *CommentLikeStorage) Unliked(ctx context.Context, commentID, userID uint64) error {
	return s.update(ctx, commentID, userID, false)
}

func (s *CommentLikeStorage) update(ctx context.Context, commentID, userID uint64, like bool) error {
	key := s.key(commentID)
	loaded, err := s.redis.SIsMember(ctx, key, loadedMarker).Result()
	if err != nil || !loaded {
		return err
	}
	member := strconv.FormatUint(userID, 10)
	if like {
		return s.redis.SAdd(ctx, key, member).Err()
	}
	return s.redis.SRem(ctx, key, member).Err()
}

// Invalidate 删除评论时清理
func (s *CommentLikeStorage) Invalidate(ctx context.Context, commentIDs ...uint64) error {
	if len(commentIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(commentIDs))
	for _, id := range commentIDs {
		keys = append(keys, s.key(id))
	}
	return s.redis.Del(ctx, keys...).Err()
}
