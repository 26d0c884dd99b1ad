package models

import "time"

// 积分来源
const (
	ActivityUpload       = "upload"
	ActivityRating       = "rating"
	ActivityComment      = "comment"
	ActivityLikeReceived = "like_received"
)

const (
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
)

type UserReputation struct {
	ID                 uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	UserID             uint64    `gorm:"column:user_id;not null;uniqueIndex" json:"user_id,string"`
	TotalPoints        int64     `gorm:"column:total_points;not null;default:0;index:idx_reputation_points" json:"total_points"`
	UploadsCount       int64     `gorm:"column:uploads_count;not null;default:0" json:"uploads_count"`
	RatingsCount       int64     `gorm:"column:ratings_count;not null;default:0" json:"ratings_count"`
	CommentsCount      int64     `gorm:"column:comments_count;not null;default:0" json:"comments_count"`
	ReceivedLikesCount int64     `gorm:"column:received_likes_count;not null;default:0" json:"received_likes_count"`
	Level              int       `gorm:"column:level;not null;default:1" json:"level"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserReputation) TableName() string {
	return "user_reputation"
}

// UserBadge badge_type 形如 uploads_gold
type UserBadge struct {
	ID               uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	UserID           uint64    `gorm:"column:user_id;not null;uniqueIndex:idx_badge_user_type" json:"user_id,string"`
	BadgeType        string    `gorm:"column:badge_type;type:varchar(32);not null;uniqueIndex:idx_badge_user_type" json:"badge_type"`
	BadgeName        string    `gorm:"column:badge_name;type:varchar(64);not null" json:"badge_name"`
	BadgeDescription string    `gorm:"column:badge_description;type:varchar(255);not null" json:"badge_description"`
	AwardedAt        time.Time `gorm:"column:awarded_at;autoCreateTime" json:"awarded_at"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

// ReputationLog 积分流水, (user_id, activity, source_id) 唯一保证幂等.
// Revoked 为撤销先于发放到达时留下的占位记录, 不计积分.
// OccurredAt 为事件发生时间, 用于判断乱序到达
type ReputationLog struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	UserID     uint64    `gorm:"column:user_id;not null;uniqueIndex:idx_reputation_log_source" json:"user_id,string"`
	Activity   string    `gorm:"column:activity;type:varchar(32);not null;uniqueIndex:idx_reputation_log_source" json:"activity"`
	SourceID   string    `gorm:"column:source_id;type:varchar(64);not null;uniqueIndex:idx_reputation_log_source" json:"source_id"`
	Points     int64     `gorm:"column:points;not null" json:"points"`
	Revoked    bool      `gorm:"column:revoked;not null;default:false" json:"-"`
	OccurredAt time.Time `gorm:"column:occurred_at" json:"-"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ReputationLog) TableName() string {
	return "reputation_logs"
}
