package types

import "time"

// ActivityEvent 积分事件, Revoke 为 true 时回收
type ActivityEvent struct {
	UserID     uint64    `json:"user_id,string"`
	Activity   string    `json:"activity"`
	SourceID   string    `json:"source_id"`
	Revoke     bool      `json:"revoke"`
	OccurredAt time.Time `json:"occurred_at"`
}

type BadgeResponse struct {
	ID               uint64    `json:"id,string"`
	BadgeType        string    `json:"badge_type"`
	BadgeName        string    `json:"badge_name"`
	BadgeDescription string    `json:"badge_description"`
	Tier             string    `json:"tier"`
	AwardedAt        time.Time `json:"awarded_at"`
}

// ReputationSummary 积分 + 等级 + 徽章统计
type ReputationSummary struct {
	UserID             uint64           `json:"user_id,string"`
	TotalPoints        int64            `json:"total_points"`
	UploadsCount       int64            `json:"uploads_count"`
	RatingsCount       int64            `json:"ratings_count"`
	CommentsCount      int64            `json:"comments_count"`
	ReceivedLikesCount int64            `json:"received_likes_count"`
	Level              int              `json:"level"`
	LevelThreshold     int64            `json:"level_threshold"`
	NextLevelThreshold int64            `json:"next_level_threshold"`
	Progress           float64          `json:"progress"`
	TotalBadges        int              `json:"total_badges"`
	GoldBadges         int              `json:"gold_badges"`
	SilverBadges       int              `json:"silver_badges"`
	BronzeBadges       int              `json:"bronze_badges"`
	Badges             []*BadgeResponse `json:"badges"`
}

type LeaderboardItem struct {
	Rank        int         `json:"rank"`
	User        UserProfile `json:"user"`
	TotalPoints int64       `json:"total_points"`
	Level       int         `json:"level"`
}

type ReputationLogItem struct {
	ID        uint64    `json:"id,string"`
	Activity  string    `json:"activity"`
	SourceID  string    `json:"source_id"`
	Points    int64     `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

type ReputationLogList struct {
	Records    []*ReputationLogItem `json:"records"`
	NextCursor uint64               `json:"next_cursor,string"`
	HasMore    bool                 `json:"has_more"`
}
