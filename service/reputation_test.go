package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"stash/models"
	"stash/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	cases := []struct {
		points int64
		level  int
	}{
		{-10, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{900, 4},
		{8100, 10},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, LevelFor(c.points), "points=%d", c.points)
	}
}

func TestLevelThresholdAndProgress(t *testing.T) {
	assert.Equal(t, int64(0), LevelThreshold(1))
	assert.Equal(t, int64(100), LevelThreshold(2))
	assert.Equal(t, int64(400), LevelThreshold(3))

	assert.InDelta(t, 50.0, LevelProgress(250, 2), 0.001)
	assert.InDelta(t, 0.0, LevelProgress(0, 1), 0.001)
	// 越界时截断
	assert.InDelta(t, 0.0, LevelProgress(50, 2), 0.001)
	assert.InDelta(t, 100.0, LevelProgress(1000, 2), 0.001)
}

func TestBadgeRulesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range badgeRules {
		assert.False(t, seen[b.Type()], "duplicate badge %s", b.Type())
		seen[b.Type()] = true
	}
	assert.Len(t, seen, 15)
	assert.Equal(t, models.TierGold, badgeTiers["uploads_gold"])
}

func activity(userID uint64, kind, source string) *types.ActivityEvent {
	return &types.ActivityEvent{UserID: userID, Activity: kind, SourceID: source}
}

func TestReputationApplyIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.signUp(t, "alice@stash.test")

	ev := activity(uid, models.ActivityUpload, "note:1")
	require.NoError(t, env.reputation.Apply(ctx, ev))
	require.NoError(t, env.reputation.Apply(ctx, ev))

	summary, err := env.reputation.GetSummary(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, int64(10), summary.TotalPoints)
	assert.Equal(t, int64(1), summary.UploadsCount)
	assert.Equal(t, 1, summary.Level)
	require.Len(t, summary.Badges, 1)
	assert.Equal(t, "uploads_bronze", summary.Badges[0].BadgeType)
	assert.Equal(t, 1, summary.BronzeBadges)
	assert.Equal(t, 1, summary.TotalBadges)
}

func activityAt(userID uint64, kind, source string, revoke bool, at time.Time) *types.ActivityEvent {
	ev := activity(userID, kind, source)
	ev.Revoke = revoke
	ev.OccurredAt = at
	return ev
}

func TestReputationRevokeKeepsBadges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.signUp(t, "bob@stash.test")
	base := time.Now()

	require.NoError(t, env.reputation.Apply(ctx, activityAt(uid, models.ActivityUpload, "note:7", false, base)))
	revoke := activityAt(uid, models.ActivityUpload, "note:7", true, base.Add(time.Second))
	require.NoError(t, env.reputation.Apply(ctx, revoke))
	// 重复回收无影响
	require.NoError(t, env.reputation.Apply(ctx, revoke))

	summary, err := env.reputation.GetSummary(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalPoints)
	assert.Equal(t, int64(0), summary.UploadsCount)
	assert.Len(t, summary.Badges, 1)

	// 回收后可以重新记分
	require.NoError(t, env.reputation.Apply(ctx, activityAt(uid, models.ActivityUpload, "note:7", false, base.Add(2*time.Second))))
	summary, err = env.reputation.GetSummary(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, int64(10), summary.TotalPoints)
	assert.Len(t, summary.Badges, 1)
}

func TestReputationOutOfOrderEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.signUp(t, "carol@stash.test")
	base := time.Now()

	// 取消点赞先于点赞到达
	require.NoError(t, env.reputation.Apply(ctx, activityAt(uid, models.ActivityLikeReceived, "like:1:2", true, base.Add(time.Second))))
	require.NoError(t, env.reputation.Apply(ctx, activityAt(uid, models.ActivityLikeReceived, "like:1:2", false, base)))
	assert.Zero(t, env.points(t, uid))

	logs, err := env.reputation.ListLogs(ctx, uid, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, logs.Records)

	// 没有时间戳的发放同样被抵消
	require.NoError(t, env.reputation.Apply(ctx, activityAt(uid, models.ActivityLikeReceived, "like:3:4", true, time.Time{})))
	require.NoError(t, env.reputation.Apply(ctx, activity(uid, models.ActivityLikeReceived, "like:3:4")))
	assert.Zero(t, env.points(t, uid))

	// 再次点赞正常记分
	require.NoError(t, env.reputation.Apply(ctx, activityAt(uid, models.ActivityLikeReceived, "like:1:2", false, base.Add(2*time.Second))))
	assert.EqualValues(t, 1, env.points(t, uid))

	// 过期的撤销不扣分
	require.NoError(t, env.reputation.Apply(ctx, activityAt(uid, models.ActivityLikeReceived, "like:1:2", true, base.Add(time.Second))))
	assert.EqualValues(t, 1, env.points(t, uid))
}

func TestReputationLevelBadges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.signUp(t, "carol@stash.test")

	for i := 0; i < 40; i++ {
		require.NoError(t, env.reputation.Apply(ctx, activity(uid, models.ActivityUpload, fmt.Sprintf("note:%d", i))))
	}

	summary, err := env.reputation.GetSummary(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, int64(400), summary.TotalPoints)
	assert.Equal(t, 3, summary.Level)
	assert.Equal(t, int64(400), summary.LevelThreshold)
	assert.Equal(t, int64(900), summary.NextLevelThreshold)
	assert.InDelta(t, 0.0, summary.Progress, 0.001)

	owned := map[string]bool{}
	for _, b := range summary.Badges {
		owned[b.BadgeType] = true
	}
	assert.True(t, owned["uploads_bronze"])
	assert.True(t, owned["uploads_silver"])
	assert.True(t, owned["level_bronze"])
	assert.False(t, owned["uploads_gold"])
	assert.Equal(t, 1, summary.SilverBadges)
	assert.Equal(t, 2, summary.BronzeBadges)
}

func TestReputationRejectsUnknownActivity(t *testing.T) {
	env := newTestEnv(t)
	assert.ErrorIs(t, env.reputation.Apply(context.Background(), activity(1, "spam", "x:1")), ErrInvalidActivity)
	assert.ErrorIs(t, env.reputation.Apply(context.Background(), activity(1, models.ActivityUpload, "")), ErrInvalidActivity)
}

func TestLeaderboardAndLogs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.signUp(t, "alice@stash.test")
	bob := env.signUp(t, "bob@stash.test")

	require.NoError(t, env.reputation.Apply(ctx, activity(alice, models.ActivityComment, "comment:1")))
	require.NoError(t, env.reputation.Apply(ctx, activity(bob, models.ActivityUpload, "note:1")))
	require.NoError(t, env.reputation.Apply(ctx, activity(bob, models.ActivityRating, "note:2")))
	require.NoError(t, env.reputation.Apply(ctx, activity(bob, models.ActivityLikeReceived, "like:1:2")))

	board, err := env.reputation.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, bob, board[0].User.UserID)
	assert.Equal(t, int64(13), board[0].TotalPoints)
	assert.Equal(t, "bob", board[0].User.UserName)
	assert.Equal(t, 2, board[1].Rank)

	page, err := env.reputation.ListLogs(ctx, bob, 0, 2)
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	assert.True(t, page.HasMore)
	assert.NotZero(t, page.NextCursor)

	next, err := env.reputation.ListLogs(ctx, bob, page.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, next.Records, 1)
	assert.False(t, next.HasMore)
	assert.Equal(t, models.ActivityUpload, next.Records[0].Activity)
}

func TestActivityConsumerDropsMalformed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.signUp(t, "dave@stash.test")
	consumer := &ActivityConsumer{Config: env.conf, Reputation: env.reputation}

	assert.NoError(t, consumer.Handle(ctx, []byte("{not json")))
	assert.NoError(t, consumer.Handle(ctx, []byte(`{"user_id":"1","activity":"bogus","source_id":"x"}`)))
	assert.NoError(t, consumer.Handle(ctx, []byte(`{}`)))

	body := fmt.Sprintf(`{"user_id":"%d","activity":"comment","source_id":"comment:9"}`, uid)
	require.NoError(t, consumer.Handle(ctx, []byte(body)))
	summary, err := env.reputation.GetSummary(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalPoints)

	// 未开启异步时不启动消费者
	mq, err := consumer.Start()
	assert.NoError(t, err)
	assert.Nil(t, mq)
}

type failingReputation struct {
	IReputationService
}

func (failingReputation) Apply(context.Context, *types.ActivityEvent) error {
	return errors.New("database is locked")
}

func TestActivityConsumerRetriesStorageErrors(t *testing.T) {
	consumer := &ActivityConsumer{Reputation: failingReputation{}}
	err := consumer.Handle(context.Background(), []byte(`{"user_id":"1","activity":"comment","source_id":"comment:1"}`))
	assert.EqualError(t, err, "database is locked")
}
