package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stash/dao"
	"stash/dao/cache"
	"stash/models"
	"stash/pkg/response"
	"stash/pkg/snowflake"
	"stash/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const submitLockTTL = 5 * time.Second

var _ IRatingService = (*RatingService)(nil)

type RatingService struct {
	DB        *gorm.DB
	NoteDAO   *dao.Note
	RatingDAO *dao.NoteRating
	Profiles  IProfileService
	Lock      *cache.Lock
	Publisher ActivityPublisher
}

type IRatingService interface {
	// Rate 新增或更新当前用户的评分
	Rate(ctx context.Context, userID uint64, req *types.RateNoteRequest) (*types.RatingSummary, error)
	Get(ctx context.Context, userID, noteID uint64) (*types.RatingSummary, error)
	List(ctx context.Context, noteID uint64, page *types.PageRequest) (*types.RatingListResponse, error)
}

func (s *RatingService) Rate(ctx context.Context, userID uint64, req *types.RateNoteRequest) (*types.RatingSummary, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, response.BadRequest("Rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(req.Comment)
	if len([]rune(comment)) > 500 {
		return nil, response.BadRequest("Comment must be at most 500 characters")
	}

	// 1. 防重复提交
	lockName := fmt.Sprintf("rating:%d:%d", req.NoteID, userID)
	ok, err := s.Lock.TryLock(ctx, lockName, submitLockTTL)
	if err != nil || !ok {
		return nil, response.TooManyRequests()
	}
	defer s.Lock.Unlock(ctx, lockName)

	if _, err := s.findNote(ctx, req.NoteID); err != nil {
		return nil, err
	}

	// 2. upsert + 重新计算平均分
	summary := &types.RatingSummary{NoteID: req.NoteID}
	now := time.Now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rating := &models.NoteRating{
			ID:      snowflake.GenID(),
			NoteID:  req.NoteID,
			UserID:  userID,
			Rating:  req.Rating,
			Comment: comment,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "note_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"rating": req.Rating, "comment": comment, "updated_at": now}),
		}).Create(rating).Error
		if err != nil {
			return fmt.Errorf("upsert rating: %w", err)
		}

		summary.AverageRating, summary.RatingsCount, err = s.NoteDAO.RefreshRating(tx, req.NoteID)
		if err != nil {
			return fmt.Errorf("refresh rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 同一笔记只计一次积分
	publishActivity(ctx, s.Publisher, userID, models.ActivityRating, noteSource(req.NoteID), false)

	summary.Mine = &types.MyRating{Rating: req.Rating, Comment: comment, UpdatedAt: now}
	return summary, nil
}

func (s *RatingService) Get(ctx context.Context, userID, noteID uint64) (*types.RatingSummary, error) {
	note, err := s.findNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	summary := &types.RatingSummary{
		NoteID:        noteID,
		AverageRating: note.AverageRating,
		RatingsCount:  note.RatingsCount,
	}
	if userID == 0 {
		return summary, nil
	}
	r, err := s.RatingDAO.FindByUser(ctx, noteID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return summary, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get my rating: %w", err)
	}
	summary.Mine = &types.MyRating{Rating: r.Rating, Comment: r.Comment, UpdatedAt: r.UpdatedAt}
	return summary, nil
}

func (s *RatingService) List(ctx context.Context, noteID uint64, page *types.PageRequest) (*types.RatingListResponse, error) {
	offset, limit := page.Normalize()
	ratings, err := s.RatingDAO.ListByNote(ctx, noteID, offset, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	resp := &types.RatingListResponse{Ratings: make([]*types.RatingItem, 0, len(ratings))}
	if len(ratings) > limit {
		resp.HasMore = true
		ratings = ratings[:limit]
	}

	userIDs := make([]uint64, 0, len(ratings))
	for _, r := range ratings {
		userIDs = append(userIDs, r.UserID)
	}
	users := s.Profiles.BatchGetUserInfo(ctx, userIDs)

	for _, r := range ratings {
		resp.Ratings = append(resp.Ratings, &types.RatingItem{
			ID:        r.ID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			User:      users[r.UserID],
			UpdatedAt: r.UpdatedAt,
		})
	}
	return resp, nil
}

func (s *RatingService) findNote(ctx context.Context, noteID uint64) (*models.Note, error) {
	note, err := s.NoteDAO.FindById(ctx, noteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NotFound("Note not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}
