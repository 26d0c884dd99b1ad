package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stash/dao"
	"stash/dao/cache"
	"stash/models"
	"stash/pkg/log"
	"stash/pkg/response"
	"stash/pkg/snowflake"
	"stash/pkg/timefmt"
	"stash/types"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxCommentLength = 1000

var _ ICommentsService = (*CommentsService)(nil)

type CommentsService struct {
	DB             *gorm.DB
	NoteDAO        *dao.Note
	CommentDAO     *dao.Comment
	CommentLikeDAO *dao.CommentLike
	LikeCache      *cache.CommentLikeStorage
	Lock           *cache.Lock
	Profiles       IProfileService
	Publisher      ActivityPublisher
}

type ICommentsService interface {
	CreateComment(ctx context.Context, req *types.CreateCommentRequest, userID uint64) (*types.CommentResponse, error)
	UpdateComment(ctx context.Context, req *types.UpdateCommentRequest, userID uint64) (*types.CommentResponse, error)
	GetComments(ctx context.Context, noteID uint64, cursor uint64, pageSize int, currentUserID uint64) (*types.CommentsListResponse, error)
	GetReplies(ctx context.Context, rootID uint64, cursor uint64, pageSize int, currentUserID uint64) (*types.CommentsListResponse, error)
	DeleteComment(ctx context.Context, commentID, userID uint64) error
	ToggleLike(ctx context.Context, commentID, userID uint64) (*types.LikeToggleResponse, error)
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", response.BadRequest("Comment cannot be empty")
	}
	if len([]rune(content)) > maxCommentLength {
		return "", response.BadRequest(fmt.Sprintf("Comment must be at most %d characters", maxCommentLength))
	}
	return content, nil
}

// CreateComment 回复的回复挂到一级评论下
func (s *CommentsService) CreateComment(ctx context.Context, req *types.CreateCommentRequest, userID uint64) (*types.CommentResponse, error) {
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	if _, err := s.NoteDAO.FindById(ctx, req.NoteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound("Note not found")
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	var rootID uint64
	if req.ReplyToID > 0 {
		parent, err := s.find(ctx, req.ReplyToID)
		if err != nil {
			return nil, err
		}
		if parent.NoteID != req.NoteID {
			return nil, response.BadRequest("Reply must belong to the same note")
		}
		rootID = parent.ID
		if parent.IsReply() {
			rootID = parent.ReplyToID
		}
	}

	comment := &models.NoteComment{
		ID:        snowflake.GenID(),
		NoteID:    req.NoteID,
		UserID:    userID,
		ReplyToID: rootID,
		Content:   content,
	}

	err = s.CommentDAO.Transaction(ctx, func(tx *gorm.DB) error {
		// 1. 创建评论
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		// 2. 如果是回复,更新一级评论的回复数
		if rootID > 0 {
			if err := s.CommentDAO.IncrRepliesCount(tx, rootID, 1); err != nil {
				return err
			}
		}

		// 3. 更新笔记评论数
		return s.NoteDAO.IncrCommentsCount(tx, req.NoteID, 1)
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	publishActivity(ctx, s.Publisher, userID, models.ActivityComment, commentSource(comment.ID), false)

	list := s.build(ctx, []*models.NoteComment{comment}, userID)
	return list[0], nil
}

func (s *CommentsService) UpdateComment(ctx context.Context, req *types.UpdateCommentRequest, userID uint64) (*types.CommentResponse, error) {
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}
	comment, err := s.find(ctx, req.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, response.Forbidden("You can only edit your own comments")
	}

	now := time.Now()
	if _, err := s.CommentDAO.UpdateById(ctx, comment.ID, map[string]any{
		"content":    content,
		"updated_at": now,
	}); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	comment.Content = content
	comment.UpdatedAt = now

	list := s.build(ctx, []*models.NoteComment{comment}, userID)
	return list[0], nil
}

// GetComments 获取一级评论列表(游标分页)
func (s *CommentsService) GetComments(ctx context.Context, noteID uint64, cursor uint64, pageSize int, currentUserID uint64) (*types.CommentsListResponse, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	// 多查一条判断是否还有更多
	comments, err := s.CommentDAO.GetRootCommentsByCursor(ctx, noteID, cursor, pageSize+1)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return s.page(ctx, comments, pageSize, currentUserID), nil
}

// GetReplies 获取回复列表, 按时间正序
func (s *CommentsService) GetReplies(ctx context.Context, rootID uint64, cursor uint64, pageSize int, currentUserID uint64) (*types.CommentsListResponse, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	root, err := s.find(ctx, rootID)
	if err != nil {
		return nil, err
	}
	if root.IsReply() {
		return nil, response.BadRequest("Replies can only be listed for top-level comments")
	}

	replies, err := s.CommentDAO.GetRepliesByCursor(ctx, rootID, cursor, pageSize+1)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	return s.page(ctx, replies, pageSize, currentUserID), nil
}

func (s *CommentsService) page(ctx context.Context, comments []*models.NoteComment, pageSize int, currentUserID uint64) *types.CommentsListResponse {
	resp := &types.CommentsListResponse{}
	if len(comments) > pageSize {
		resp.HasMore = true
		comments = comments[:pageSize]
		resp.NextCursor = comments[len(comments)-1].ID
	}
	resp.Comments = s.build(ctx, comments, currentUserID)
	return resp
}

// build 并发获取用户信息和点赞状态
func (s *CommentsService) build(ctx context.Context, comments []*models.NoteComment, currentUserID uint64) []*types.CommentResponse {
	result := make([]*types.CommentResponse, 0, len(comments))
	if len(comments) == 0 {
		return result
	}

	commentIDs := make([]uint64, 0, len(comments))
	userIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
		userIDs = append(userIDs, c.UserID)
	}

	var (
		users map[uint64]types.UserProfile
		liked map[uint64]bool
		wg    conc.WaitGroup
	)
	wg.Go(func() {
		users = s.Profiles.BatchGetUserInfo(ctx, userIDs)
	})
	wg.Go(func() {
		liked = s.likeStatus(ctx, commentIDs, currentUserID)
	})
	wg.Wait()

	for _, c := range comments {
		result = append(result, &types.CommentResponse{
			ID:           c.ID,
			NoteID:       c.NoteID,
			UserID:       c.UserID,
			ReplyToID:    c.ReplyToID,
			IsReply:      c.IsReply(),
			Content:      c.Content,
			LikesCount:   c.LikesCount,
			RepliesCount: c.RepliesCount,
			IsLiked:      liked[c.ID],
			Edited:       c.UpdatedAt.After(c.CreatedAt),
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
			CreatedAgo:   timefmt.Ago(c.CreatedAt),
			User:         users[c.UserID],
		})
	}
	return result
}

// likeStatus 先查缓存, 未命中的评论回源数据库并回填
func (s *CommentsService) likeStatus(ctx context.Context, commentIDs []uint64, userID uint64) map[uint64]bool {
	result := make(map[uint64]bool, len(commentIDs))
	if userID == 0 {
		return result
	}

	missed := make([]uint64, 0)
	for _, id := range commentIDs {
		liked, cached, err := s.LikeCache.IsLiked(ctx, id, userID)
		if err != nil || !cached {
			missed = append(missed, id)
			continue
		}
		result[id] = liked
	}
	if len(missed) == 0 {
		return result
	}

	likes, err := s.CommentLikeDAO.LikedBy(s.DB.WithContext(ctx), missed)
	if err != nil {
		log.L.Warn("load comment likes failed", zap.Error(err))
		return result
	}
	likers := make(map[uint64][]uint64, len(missed))
	for _, l := range likes {
		likers[l.CommentID] = append(likers[l.CommentID], l.UserID)
		if l.UserID == userID {
			result[l.CommentID] = true
		}
	}
	for _, id := range missed {
		if err := s.LikeCache.Load(ctx, id, likers[id]); err != nil {
			log.L.Warn("warm comment like cache failed", zap.Uint64("comment_id", id), zap.Error(err))
			break
		}
	}
	return result
}

// DeleteComment 作者或管理员可删除, 一级评论连同回复一起删除
func (s *CommentsService) DeleteComment(ctx context.Context, commentID, userID uint64) error {
	comment, err := s.find(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		isAdmin, err := s.Profiles.IsAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !isAdmin {
			return response.Forbidden("You can only delete your own comments")
		}
	}

	authors := map[uint64]uint64{comment.ID: comment.UserID}
	var likes []*models.CommentLike

	err = s.CommentDAO.Transaction(ctx, func(tx *gorm.DB) error {
		// 1. 一级评论需要带上所有回复
		if !comment.IsReply() {
			replies, err := s.CommentDAO.Replies(tx, comment.ID)
			if err != nil {
				return err
			}
			for _, r := range replies {
				authors[r.ID] = r.UserID
			}
		}
		ids := make([]uint64, 0, len(authors))
		for id := range authors {
			ids = append(ids, id)
		}

		// 2. 删除点赞和评论
		var err error
		likes, err = s.CommentLikeDAO.LikedBy(tx, ids)
		if err != nil {
			return err
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.NoteComment{}).Error; err != nil {
			return err
		}

		// 3. 更新计数
		if comment.IsReply() {
			if err := s.CommentDAO.IncrRepliesCount(tx, comment.ReplyToID, -1); err != nil {
				return err
			}
		}
		return s.NoteDAO.IncrCommentsCount(tx, comment.NoteID, -int64(len(ids)))
	})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	ids := make([]uint64, 0, len(authors))
	for id, author := range authors {
		ids = append(ids, id)
		publishActivity(ctx, s.Publisher, author, models.ActivityComment, commentSource(id), true)
	}
	for _, l := range likes {
		if author := authors[l.CommentID]; author != l.UserID {
			publishActivity(ctx, s.Publisher, author, models.ActivityLikeReceived, likeSource(l.CommentID, l.UserID), true)
		}
	}
	if err := s.LikeCache.Invalidate(ctx, ids...); err != nil {
		log.L.Warn("invalidate comment like cache failed", zap.Error(err))
	}

	log.L.Info("comment deleted", zap.Uint64("comment_id", commentID), zap.Uint64("operator", userID), zap.Int("removed", len(ids)))
	return nil
}

// ToggleLike 点赞 / 取消点赞, 以数据库为准
func (s *CommentsService) ToggleLike(ctx context.Context, commentID, userID uint64) (*types.LikeToggleResponse, error) {
	// 1. 分布式锁,防止重复点赞
	lockName := fmt.Sprintf("comment_like:%d:%d", commentID, userID)
	ok, err := s.Lock.TryLock(ctx, lockName, submitLockTTL)
	if err != nil || !ok {
		return nil, response.TooManyRequests()
	}
	defer s.Lock.Unlock(ctx, lockName)

	comment, err := s.find(ctx, commentID)
	if err != nil {
		return nil, err
	}

	// 2. 写数据库
	resp := &types.LikeToggleResponse{CommentID: commentID}
	err = s.CommentDAO.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			if err := s.CommentDAO.IncrLikesCount(tx, commentID, -1); err != nil {
				return err
			}
		} else {
			like := &models.CommentLike{
				ID:        snowflake.GenID(),
				CommentID: commentID,
				UserID:    userID,
			}
			if err := tx.Create(like).Error; err != nil {
				return err
			}
			if err := s.CommentDAO.IncrLikesCount(tx, commentID, 1); err != nil {
				return err
			}
			resp.Liked = true
		}

		var err error
		resp.LikesCount, err = s.CommentDAO.LikesCount(tx, commentID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("toggle comment like: %w", err)
	}

	// 3. 更新缓存, 失败不影响结果
	if resp.Liked {
		err = s.LikeCache.Liked(ctx, commentID, userID)
	} else {
		err = s.LikeCache.Unliked(ctx, commentID, userID)
	}
	if err != nil {
		log.L.Warn("update comment like cache failed", zap.Uint64("comment_id", commentID), zap.Error(err))
		_ = s.LikeCache.Invalidate(ctx, commentID)
	}

	// 4. 给评论作者计分, 自己点赞不计
	if comment.UserID != userID {
		publishActivity(ctx, s.Publisher, comment.UserID, models.ActivityLikeReceived, likeSource(commentID, userID), !resp.Liked)
	}
	return resp, nil
}

func (s *CommentsService) find(ctx context.Context, commentID uint64) (*models.NoteComment, error) {
	comment, err := s.CommentDAO.FindById(ctx, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NotFound("Comment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

func commentSource(commentID uint64) string {
	return "comment:" + strconv.FormatUint(commentID, 10)
}

func likeSource(commentID, likerID uint64) string {
	return fmt.Sprintf("like:%d:%d", commentID, likerID)
}
