package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"stash/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentFixture struct {
	env    *testEnv
	author uint64
	reader uint64
	noteID uint64
}

func newCommentFixture(t *testing.T) *commentFixture {
	env := newTestEnv(t)
	author := env.signUp(t, "author@stash.test")
	reader := env.signUp(t, "reader@stash.test")
	note := env.upload(t, author, env.createClass(t, author), "intro.md", []byte("# Intro"))
	return &commentFixture{env: env, author: author, reader: reader, noteID: note.ID}
}

func (f *commentFixture) comment(t *testing.T, userID, replyTo uint64, content string) *types.CommentResponse {
	t.Helper()
	c, err := f.env.comments.CreateComment(context.Background(), &types.CreateCommentRequest{
		NoteID:    f.noteID,
		Content:   content,
		ReplyToID: replyTo,
	}, userID)
	require.NoError(t, err)
	return c
}

func (f *commentFixture) points(t *testing.T, userID uint64) int64 {
	t.Helper()
	return f.env.points(t, userID)
}

func TestCreateCommentValidation(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	_, err := f.env.comments.CreateComment(ctx, &types.CreateCommentRequest{NoteID: f.noteID, Content: "   "}, f.reader)
	assertBizCode(t, err, http.StatusBadRequest)

	_, err = f.env.comments.CreateComment(ctx, &types.CreateCommentRequest{NoteID: f.noteID, Content: strings.Repeat("a", 1001)}, f.reader)
	assertBizCode(t, err, http.StatusBadRequest)

	_, err = f.env.comments.CreateComment(ctx, &types.CreateCommentRequest{NoteID: 42, Content: "hi"}, f.reader)
	assertBizCode(t, err, http.StatusNotFound)

	c := f.comment(t, f.reader, 0, "  nice notes  ")
	assert.Equal(t, "nice notes", c.Content)
	assert.False(t, c.IsReply)
	assert.False(t, c.Edited)
	assert.Equal(t, "just now", c.CreatedAgo)
	assert.Equal(t, "reader", c.User.UserName)
}

func TestRepliesAttachToRoot(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	root := f.comment(t, f.reader, 0, "question")
	reply := f.comment(t, f.author, root.ID, "answer")
	nested := f.comment(t, f.reader, reply.ID, "thanks")

	assert.Equal(t, root.ID, reply.ReplyToID)
	assert.Equal(t, root.ID, nested.ReplyToID)
	assert.True(t, nested.IsReply)

	roots, err := f.env.comments.GetComments(ctx, f.noteID, 0, 20, f.reader)
	require.NoError(t, err)
	require.Len(t, roots.Comments, 1)
	assert.Equal(t, int64(2), roots.Comments[0].RepliesCount)

	replies, err := f.env.comments.GetReplies(ctx, root.ID, 0, 20, f.reader)
	require.NoError(t, err)
	require.Len(t, replies.Comments, 2)
	// 回复按时间正序
	assert.Equal(t, reply.ID, replies.Comments[0].ID)
	assert.Equal(t, nested.ID, replies.Comments[1].ID)

	_, err = f.env.comments.GetReplies(ctx, reply.ID, 0, 20, f.reader)
	assertBizCode(t, err, http.StatusBadRequest)

	note, err := f.env.notes.Detail(ctx, f.reader, f.noteID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), note.CommentsCount)
}

func TestReplyMustBelongToSameNote(t *testing.T) {
	f := newCommentFixture(t)
	other := f.env.upload(t, f.reader, f.env.createClass(t, f.reader), "other.txt", []byte("other"))
	root := f.comment(t, f.reader, 0, "on the first note")

	_, err := f.env.comments.CreateComment(context.Background(), &types.CreateCommentRequest{
		NoteID:    other.ID,
		Content:   "wrong thread",
		ReplyToID: root.ID,
	}, f.author)
	assertBizCode(t, err, http.StatusBadRequest)
}

func TestGetCommentsCursor(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	first := f.comment(t, f.reader, 0, "one")
	second := f.comment(t, f.reader, 0, "two")
	third := f.comment(t, f.reader, 0, "three")

	page, err := f.env.comments.GetComments(ctx, f.noteID, 0, 2, 0)
	require.NoError(t, err)
	require.Len(t, page.Comments, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, third.ID, page.Comments[0].ID)
	assert.Equal(t, second.ID, page.Comments[1].ID)
	assert.Equal(t, second.ID, page.NextCursor)

	next, err := f.env.comments.GetComments(ctx, f.noteID, page.NextCursor, 2, 0)
	require.NoError(t, err)
	require.Len(t, next.Comments, 1)
	assert.Equal(t, first.ID, next.Comments[0].ID)
	assert.False(t, next.HasMore)
	assert.Zero(t, next.NextCursor)
}

func TestUpdateCommentAuthorOnly(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	c := f.comment(t, f.reader, 0, "typo")

	_, err := f.env.comments.UpdateComment(ctx, &types.UpdateCommentRequest{CommentID: c.ID, Content: "hijack"}, f.author)
	assertBizCode(t, err, http.StatusForbidden)

	updated, err := f.env.comments.UpdateComment(ctx, &types.UpdateCommentRequest{CommentID: c.ID, Content: "fixed"}, f.reader)
	require.NoError(t, err)
	assert.Equal(t, "fixed", updated.Content)
	assert.True(t, updated.Edited)
}

func TestDeleteRootRemovesReplies(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	root := f.comment(t, f.reader, 0, "root")
	reply := f.comment(t, f.author, root.ID, "reply")
	_, err := f.env.comments.ToggleLike(ctx, reply.ID, f.reader)
	require.NoError(t, err)
	// 作者: 上传 10 + 回复 3 + 被点赞 1
	assert.Equal(t, int64(14), f.points(t, f.author))

	err = f.env.comments.DeleteComment(ctx, root.ID, f.author)
	assertBizCode(t, err, http.StatusForbidden)

	require.NoError(t, f.env.comments.DeleteComment(ctx, root.ID, f.reader))

	_, err = f.env.comments.GetReplies(ctx, root.ID, 0, 20, 0)
	assertBizCode(t, err, http.StatusNotFound)
	note, err := f.env.notes.Detail(ctx, f.reader, f.noteID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), note.CommentsCount)

	// 评论和点赞积分被收回
	assert.Equal(t, int64(10), f.points(t, f.author))
	assert.Equal(t, int64(0), f.points(t, f.reader))
}

func TestDeleteReplyDecrementsRoot(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	root := f.comment(t, f.reader, 0, "root")
	reply := f.comment(t, f.author, root.ID, "reply")
	require.NoError(t, f.env.comments.DeleteComment(ctx, reply.ID, f.author))

	roots, err := f.env.comments.GetComments(ctx, f.noteID, 0, 20, 0)
	require.NoError(t, err)
	require.Len(t, roots.Comments, 1)
	assert.Equal(t, int64(0), roots.Comments[0].RepliesCount)
}

func TestAdminCanDeleteAnyComment(t *testing.T) {
	f := newCommentFixture(t)
	admin := f.env.signUp(t, "boss@stash.test")
	c := f.comment(t, f.reader, 0, "spam")

	require.NoError(t, f.env.comments.DeleteComment(context.Background(), c.ID, admin))
}

func TestToggleLike(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	c := f.comment(t, f.author, 0, "like me")
	base := f.points(t, f.author)

	// 预热缓存, 之后点赞要同步更新
	list, err := f.env.comments.GetComments(ctx, f.noteID, 0, 20, f.reader)
	require.NoError(t, err)
	assert.False(t, list.Comments[0].IsLiked)

	liked, err := f.env.comments.ToggleLike(ctx, c.ID, f.reader)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.Equal(t, int64(1), liked.LikesCount)
	assert.Equal(t, base+1, f.points(t, f.author))

	list, err = f.env.comments.GetComments(ctx, f.noteID, 0, 20, f.reader)
	require.NoError(t, err)
	assert.True(t, list.Comments[0].IsLiked)
	assert.Equal(t, int64(1), list.Comments[0].LikesCount)

	unliked, err := f.env.comments.ToggleLike(ctx, c.ID, f.reader)
	require.NoError(t, err)
	assert.False(t, unliked.Liked)
	assert.Equal(t, int64(0), unliked.LikesCount)
	assert.Equal(t, base, f.points(t, f.author))

	list, err = f.env.comments.GetComments(ctx, f.noteID, 0, 20, f.reader)
	require.NoError(t, err)
	assert.False(t, list.Comments[0].IsLiked)

	// 给自己点赞不计分
	_, err = f.env.comments.ToggleLike(ctx, c.ID, f.author)
	require.NoError(t, err)
	assert.Equal(t, base, f.points(t, f.author))
}

func TestToggleLikeLocked(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	c := f.comment(t, f.author, 0, "busy")

	ok, err := f.env.comments.Lock.TryLock(ctx, "comment_like:"+uintStr(c.ID)+":"+uintStr(f.reader), submitLockTTL)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.env.comments.ToggleLike(ctx, c.ID, f.reader)
	assertBizCode(t, err, http.StatusTooManyRequests)
}
