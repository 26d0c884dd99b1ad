package service

import (
	"math"

	"stash/models"
)

type activityRule struct {
	Points  int64
	Counter string
}

// 每种行为的积分和对应计数列
var activityRules = map[string]activityRule{
	models.ActivityUpload:       {Points: 10, Counter: "uploads_count"},
	models.ActivityRating:       {Points: 2, Counter: "ratings_count"},
	models.ActivityComment:      {Points: 3, Counter: "comments_count"},
	models.ActivityLikeReceived: {Points: 1, Counter: "received_likes_count"},
}

type badgeRule struct {
	Track       string
	Tier        string
	Threshold   int64
	Name        string
	Description string
}

func (b badgeRule) Type() string {
	return b.Track + "_" + b.Tier
}

func (b badgeRule) metric(acc *models.UserReputation) int64 {
	switch b.Track {
	case "uploads":
		return acc.UploadsCount
	case "comments":
		return acc.CommentsCount
	case "ratings":
		return acc.RatingsCount
	case "likes":
		return acc.ReceivedLikesCount
	case "level":
		return int64(acc.Level)
	}
	return 0
}

var badgeRules = []badgeRule{
	{"uploads", models.TierBronze, 1, "First Upload", "Shared your first note"},
	{"uploads", models.TierSilver, 10, "Note Sharer", "Shared 10 notes"},
	{"uploads", models.TierGold, 50, "Knowledge Hub", "Shared 50 notes"},

	{"comments", models.TierBronze, 5, "Conversation Starter", "Posted 5 comments"},
	{"comments", models.TierSilver, 25, "Active Discussant", "Posted 25 comments"},
	{"comments", models.TierGold, 100, "Community Voice", "Posted 100 comments"},

	{"ratings", models.TierBronze, 5, "Critic", "Rated 5 notes"},
	{"ratings", models.TierSilver, 25, "Trusted Reviewer", "Rated 25 notes"},
	{"ratings", models.TierGold, 100, "Rating Expert", "Rated 100 notes"},

	{"likes", models.TierBronze, 10, "Appreciated", "Received 10 likes on your comments"},
	{"likes", models.TierSilver, 50, "Well Liked", "Received 50 likes on your comments"},
	{"likes", models.TierGold, 200, "Crowd Favorite", "Received 200 likes on your comments"},

	{"level", models.TierBronze, 3, "Rising Star", "Reached level 3"},
	{"level", models.TierSilver, 5, "Scholar", "Reached level 5"},
	{"level", models.TierGold, 10, "Legend", "Reached level 10"},
}

var badgeTiers = func() map[string]string {
	m := make(map[string]string, len(badgeRules))
	for _, b := range badgeRules {
		m[b.Type()] = b.Tier
	}
	return m
}()

// LevelFor level = floor(sqrt(points/100)) + 1
func LevelFor(points int64) int {
	if points <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(points)/100))) + 1
}

// LevelThreshold 达到 level 所需的积分
func LevelThreshold(level int) int64 {
	if level <= 1 {
		return 0
	}
	n := int64(level - 1)
	return n * n * 100
}

// LevelProgress 当前等级内的进度, 0..100
func LevelProgress(points int64, level int) float64 {
	low, high := LevelThreshold(level), LevelThreshold(level+1)
	if high <= low {
		return 0
	}
	p := float64(points-low) / float64(high-low) * 100
	return math.Max(0, math.Min(100, p))
}
