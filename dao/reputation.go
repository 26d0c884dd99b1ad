package dao

import (
	"context"
	"errors"

	"stash/models"
	"stash/pkg/snowflake"

	"gorm.io/gorm"
)

type Reputation struct {
	Repo[models.UserReputation]
}

func NewReputation(db *gorm.DB) *Reputation {
	return &Reputation{
		Repo: NewRepo[models.UserReputation](db),
	}
}

// GetAccount 没有记录时返回零值账户
func (d *Reputation) GetAccount(ctx context.Context, userID uint64) (*models.UserReputation, error) {
	acc, err := d.FindByWhere(ctx, "user_id = ?", userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserReputation{UserID: userID, Level: 1}, nil
	}
	return acc, err
}

// EnsureAccount 初始化账户（针对新用户）
func (d *Reputation) EnsureAccount(tx *gorm.DB, userID uint64) (*models.UserReputation, error) {
	acc := &models.UserReputation{}
	err := tx.Where("user_id = ?", userID).
		Attrs(models.UserReputation{ID: snowflake.GenID(), UserID: userID, Level: 1}).
		FirstOrCreate(acc).Error
	return acc, err
}

// ApplyDelta 原子更新积分和对应计数, 减少时不小于 0
func (d *Reputation) ApplyDelta(tx *gorm.DB, userID uint64, points int64, counter string, delta int64) error {
	updates := map[string]any{}
	if points >= 0 {
		updates["total_points"] = gorm.Expr("total_points + ?", points)
	} else {
		updates["total_points"] = gorm.Expr(decrClamp("total_points"), -points, -points)
	}
	if counter != "" {
		if delta >= 0 {
			updates[counter] = gorm.Expr(counter+" + ?", delta)
		} else {
			updates[counter] = gorm.Expr(decrClamp(counter), -delta, -delta)
		}
	}
	return tx.Model(&models.UserReputation{}).Where("user_id = ?", userID).UpdateColumns(updates).Error
}

func (d *Reputation) SetLevel(tx *gorm.DB, userID uint64, level int) error {
	return tx.Model(&models.UserReputation{}).Where("user_id = ?", userID).UpdateColumn("level", level).Error
}

// Leaderboard 积分排行
func (d *Reputation) Leaderboard(ctx context.Context, limit int) ([]*models.UserReputation, error) {
	var list []*models.UserReputation
	err := d.Db.WithContext(ctx).
		Where("total_points > 0").
		Order("total_points DESC").
		Order("user_id ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

type Badge struct {
	Repo[models.UserBadge]
}

func NewBadge(db *gorm.DB) *Badge {
	return &Badge{
		Repo: NewRepo[models.UserBadge](db),
	}
}

// ListByUser 最新获得的在前
func (d *Badge) ListByUser(ctx context.Context, userID uint64) ([]*models.UserBadge, error) {
	var badges []*models.UserBadge
	err := d.Db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Order("id DESC").
		Find(&badges).Error
	return badges, err
}

// OwnedTypes 用户已获得的徽章类型
func (d *Badge) OwnedTypes(tx *gorm.DB, userID uint64) (map[string]bool, error) {
	var badgeTypes []string
	if err := tx.Model(&models.UserBadge{}).Where("user_id = ?", userID).Pluck("badge_type", &badgeTypes).Error; err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(badgeTypes))
	for _, t := range badgeTypes {
		owned[t] = true
	}
	return owned, nil
}

type ReputationLog struct {
	Repo[models.ReputationLog]
}

func NewReputationLog(db *gorm.DB) *ReputationLog {
	return &ReputationLog{
		Repo: NewRepo[models.ReputationLog](db),
	}
}

// FindLog 幂等检查, 不存在返回 nil
func (d *ReputationLog) FindLog(tx *gorm.DB, userID uint64, activity, sourceID string) (*models.ReputationLog, error) {
	var logs []*models.ReputationLog
	err := tx.Where("user_id = ? AND activity = ? AND source_id = ?", userID, activity, sourceID).
		Limit(1).
		Find(&logs).Error
	if err != nil || len(logs) == 0 {
		return nil, err
	}
	return logs[0], nil
}

// DeleteLog 按 ID 删除一条流水
func (d *ReputationLog) DeleteLog(tx *gorm.DB, id uint64) (int64, error) {
	res := tx.Where("id = ?", id).Delete(&models.ReputationLog{})
	return res.RowsAffected, res.Error
}

// ListRecords 分页查询积分流水, cursor 为上一页最后一条 ID
func (d *ReputationLog) ListRecords(ctx context.Context, userID uint64, cursor uint64, limit int) ([]*models.ReputationLog, error) {
	var logs []*models.ReputationLog
	query := d.Db.WithContext(ctx).Where("user_id = ? AND revoked = ?", userID, false)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
