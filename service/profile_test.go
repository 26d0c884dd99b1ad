package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"stash/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.signUp(t, "alice@stash.test")

	short := "al"
	_, err := env.profiles.UpdateProfile(ctx, uid, &types.UpdateProfileRequest{Username: &short})
	assertBizCode(t, err, http.StatusBadRequest)

	name, full := " alice_a ", "Alice Anders"
	p, err := env.profiles.UpdateProfile(ctx, uid, &types.UpdateProfileRequest{Username: &name, FullName: &full})
	require.NoError(t, err)
	assert.Equal(t, "alice_a", p.Username)
	assert.Equal(t, "Alice Anders", p.FullName)

	// 上传者名称优先使用全名
	note := env.upload(t, uid, env.createClass(t, uid), "a.md", []byte("# a"))
	assert.Equal(t, "Alice Anders", note.UploaderName)

	_, err = env.profiles.GetProfile(ctx, 42, 0)
	assertBizCode(t, err, http.StatusNotFound)
}

func TestUploadAvatar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.signUp(t, "alice@stash.test")

	resp, err := env.profiles.UploadAvatar(ctx, uid, fileHeader(t, "me.png", "image/png", pngBytes(t, 4, 3)))
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Width)
	assert.Equal(t, 3, resp.Height)
	assert.True(t, strings.HasPrefix(resp.AvatarURL, "http://localhost:8080/files/avatars/"+uintStr(uid)+"/"))
	assert.True(t, strings.HasSuffix(resp.AvatarURL, ".png"))
	assert.Equal(t, 1, countFiles(t, env, env.conf.Storage.AvatarsBucket))

	p, err := env.profiles.GetProfile(ctx, uid, 0)
	require.NoError(t, err)
	assert.Equal(t, resp.AvatarURL, p.AvatarURL)

	users := env.profiles.BatchGetUserInfo(ctx, []uint64{uid, 42})
	assert.Equal(t, resp.AvatarURL, users[uid].AvatarURL)
	assert.Equal(t, "Anonymous", users[42].UserName)
}

func TestUploadAvatarRejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.signUp(t, "alice@stash.test")

	_, err := env.profiles.UploadAvatar(ctx, uid, nil)
	assertBizCode(t, err, http.StatusBadRequest)

	_, err = env.profiles.UploadAvatar(ctx, uid, fileHeader(t, "me.png", "image/png", []byte("not an image at all")))
	assertBizCode(t, err, http.StatusBadRequest)

	env.conf.Upload.MaxAvatarBytes = 16
	_, err = env.profiles.UploadAvatar(ctx, uid, fileHeader(t, "me.png", "image/png", pngBytes(t, 4, 3)))
	assertBizCode(t, err, http.StatusRequestEntityTooLarge)

	assert.Zero(t, countFiles(t, env, env.conf.Storage.AvatarsBucket))
}
