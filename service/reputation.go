package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stash/dao"
	"stash/models"
	"stash/pkg/log"
	"stash/pkg/snowflake"
	"stash/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ IReputationService = (*ReputationService)(nil)

// ErrInvalidActivity 事件本身无效, 重试也无法成功
var ErrInvalidActivity = errors.New("invalid activity event")

type ReputationService struct {
	DB            *gorm.DB
	ReputationDAO *dao.Reputation
	BadgeDAO      *dao.Badge
	LogDAO        *dao.ReputationLog
	ProfileDAO    *dao.Profiles
}

type IReputationService interface {
	// Apply 处理积分事件, 同一来源只记一次
	Apply(ctx context.Context, ev *types.ActivityEvent) error

	GetSummary(ctx context.Context, userID uint64) (*types.ReputationSummary, error)
	ListBadges(ctx context.Context, userID uint64) ([]*types.BadgeResponse, error)
	Leaderboard(ctx context.Context, limit int) ([]*types.LeaderboardItem, error)
	ListLogs(ctx context.Context, userID uint64, cursor uint64, limit int) (*types.ReputationLogList, error)
}

func (s *ReputationService) Apply(ctx context.Context, ev *types.ActivityEvent) error {
	if ev == nil || ev.UserID == 0 || ev.SourceID == "" {
		return fmt.Errorf("%w: missing user or source", ErrInvalidActivity)
	}
	rule, ok := activityRules[ev.Activity]
	if !ok {
		return fmt.Errorf("%w: unknown activity %q", ErrInvalidActivity, ev.Activity)
	}
	if ev.Revoke {
		return s.revoke(ctx, ev, rule)
	}

	at := eventTime(ev)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.ReputationDAO.EnsureAccount(tx, ev.UserID); err != nil {
			return fmt.Errorf("init reputation account: %w", err)
		}

		// 1. 已有流水直接返回, 占位记录说明撤销先到
		entry, err := s.LogDAO.FindLog(tx, ev.UserID, ev.Activity, ev.SourceID)
		if err != nil {
			return fmt.Errorf("find reputation log: %w", err)
		}
		if entry != nil {
			if !entry.Revoked {
				return nil
			}
			if _, err := s.LogDAO.DeleteLog(tx, entry.ID); err != nil {
				return fmt.Errorf("delete reputation tombstone: %w", err)
			}
			if ev.OccurredAt.IsZero() || !ev.OccurredAt.After(entry.OccurredAt) {
				return nil
			}
		}

		// 2. 写流水, 唯一索引冲突说明并发处理过
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.ReputationLog{
			ID:         snowflake.GenID(),
			UserID:     ev.UserID,
			Activity:   ev.Activity,
			SourceID:   ev.SourceID,
			Points:     rule.Points,
			OccurredAt: at,
		})
		if res.Error != nil {
			return fmt.Errorf("create reputation log: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		// 3. 积分和计数
		if err := s.ReputationDAO.ApplyDelta(tx, ev.UserID, rule.Points, rule.Counter, 1); err != nil {
			return fmt.Errorf("update reputation: %w", err)
		}

		// 4. 等级和徽章
		return s.settle(tx, ev.UserID, true)
	})
	if err != nil {
		return err
	}

	log.L.Debug("reputation applied",
		zap.Uint64("user_id", ev.UserID),
		zap.String("activity", ev.Activity),
		zap.String("source_id", ev.SourceID),
	)
	return nil
}

// revoke 删除流水并扣回积分, 已获得的徽章保留.
// 流水不存在时写入占位记录, 抵消之后到达的较早发放
func (s *ReputationService) revoke(ctx context.Context, ev *types.ActivityEvent, rule activityRule) error {
	at := eventTime(ev)
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.LogDAO.FindLog(tx, ev.UserID, ev.Activity, ev.SourceID)
		if err != nil {
			return fmt.Errorf("find reputation log: %w", err)
		}
		if entry == nil {
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.ReputationLog{
				ID:         snowflake.GenID(),
				UserID:     ev.UserID,
				Activity:   ev.Activity,
				SourceID:   ev.SourceID,
				Revoked:    true,
				OccurredAt: at,
			}).Error
			if err != nil {
				return fmt.Errorf("create reputation tombstone: %w", err)
			}
			return nil
		}
		// 早于当前发放的撤销已过期
		if entry.Revoked || (!ev.OccurredAt.IsZero() && ev.OccurredAt.Before(entry.OccurredAt)) {
			return nil
		}

		affected, err := s.LogDAO.DeleteLog(tx, entry.ID)
		if err != nil {
			return fmt.Errorf("delete reputation log: %w", err)
		}
		if affected == 0 {
			return nil
		}

		if err := s.ReputationDAO.ApplyDelta(tx, ev.UserID, -entry.Points, rule.Counter, -1); err != nil {
			return fmt.Errorf("update reputation: %w", err)
		}
		return s.settle(tx, ev.UserID, false)
	})
}

func eventTime(ev *types.ActivityEvent) time.Time {
	if ev.OccurredAt.IsZero() {
		return time.Now()
	}
	return ev.OccurredAt
}

// settle 重新计算等级, award 为 true 时补发达到条件的徽章
func (s *ReputationService) settle(tx *gorm.DB, userID uint64, award bool) error {
	var acc models.UserReputation
	if err := tx.Where("user_id = ?", userID).First(&acc).Error; err != nil {
		return fmt.Errorf("load reputation: %w", err)
	}

	level := LevelFor(acc.TotalPoints)
	if level != acc.Level {
		if err := s.ReputationDAO.SetLevel(tx, userID, level); err != nil {
			return fmt.Errorf("update level: %w", err)
		}
		acc.Level = level
	}
	if !award {
		return nil
	}

	owned, err := s.BadgeDAO.OwnedTypes(tx, userID)
	if err != nil {
		return fmt.Errorf("load badges: %w", err)
	}
	for _, rule := range badgeRules {
		if owned[rule.Type()] || rule.metric(&acc) < rule.Threshold {
			continue
		}
		badge := &models.UserBadge{
			ID:               snowflake.GenID(),
			UserID:           userID,
			BadgeType:        rule.Type(),
			BadgeName:        rule.Name,
			BadgeDescription: rule.Description,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(badge).Error; err != nil {
			return fmt.Errorf("award badge %s: %w", rule.Type(), err)
		}
	}
	return nil
}

func (s *ReputationService) GetSummary(ctx context.Context, userID uint64) (*types.ReputationSummary, error) {
	acc, err := s.ReputationDAO.GetAccount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get reputation: %w", err)
	}
	badges, err := s.ListBadges(ctx, userID)
	if err != nil {
		return nil, err
	}

	level := LevelFor(acc.TotalPoints)
	summary := &types.ReputationSummary{
		UserID:             userID,
		TotalPoints:        acc.TotalPoints,
		UploadsCount:       acc.UploadsCount,
		RatingsCount:       acc.RatingsCount,
		CommentsCount:      acc.CommentsCount,
		ReceivedLikesCount: acc.ReceivedLikesCount,
		Level:              level,
		LevelThreshold:     LevelThreshold(level),
		NextLevelThreshold: LevelThreshold(level + 1),
		Progress:           LevelProgress(acc.TotalPoints, level),
		TotalBadges:        len(badges),
		Badges:             badges,
	}
	for _, b := range badges {
		switch b.Tier {
		case models.TierGold:
			summary.GoldBadges++
		case models.TierSilver:
			summary.SilverBadges++
		case models.TierBronze:
			summary.BronzeBadges++
		}
	}
	return summary, nil
}

func (s *ReputationService) ListBadges(ctx context.Context, userID uint64) ([]*types.BadgeResponse, error) {
	badges, err := s.BadgeDAO.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	list := make([]*types.BadgeResponse, 0, len(badges))
	for _, b := range badges {
		list = append(list, &types.BadgeResponse{
			ID:               b.ID,
			BadgeType:        b.BadgeType,
			BadgeName:        b.BadgeName,
			BadgeDescription: b.BadgeDescription,
			Tier:             badgeTiers[b.BadgeType],
			AwardedAt:        b.AwardedAt,
		})
	}
	return list, nil
}

func (s *ReputationService) Leaderboard(ctx context.Context, limit int) ([]*types.LeaderboardItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	accounts, err := s.ReputationDAO.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	ids := make([]uint64, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.UserID)
	}
	profiles, err := s.ProfileDAO.BatchGet(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	items := make([]*types.LeaderboardItem, 0, len(accounts))
	for i, a := range accounts {
		items = append(items, &types.LeaderboardItem{
			Rank:        i + 1,
			User:        toUserProfile(a.UserID, profiles[a.UserID]),
			TotalPoints: a.TotalPoints,
			Level:       LevelFor(a.TotalPoints),
		})
	}
	return items, nil
}

func (s *ReputationService) ListLogs(ctx context.Context, userID uint64, cursor uint64, limit int) (*types.ReputationLogList, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	logs, err := s.LogDAO.ListRecords(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list reputation logs: %w", err)
	}

	resp := &types.ReputationLogList{
		Records: make([]*types.ReputationLogItem, 0, len(logs)),
	}
	if len(logs) > limit {
		resp.HasMore = true
		logs = logs[:limit]
		resp.NextCursor = logs[len(logs)-1].ID
	}
	for _, l := range logs {
		resp.Records = append(resp.Records, &types.ReputationLogItem{
			ID:        l.ID,
			Activity:  l.Activity,
			SourceID:  l.SourceID,
			Points:    l.Points,
			CreatedAt: l.CreatedAt,
		})
	}
	return resp, nil
}
