package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"stash/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *storage.Local {
	t.Helper()
	local, err := storage.NewLocal(t.TempDir(), "http://localhost:8080", []byte("file-secret"))
	require.NoError(t, err)
	return local
}

func put(t *testing.T, s storage.Storage, bucket, key, body string) {
	t.Helper()
	require.NoError(t, s.Put(context.Background(), bucket, key, strings.NewReader(body), int64(len(body)), "text/plain"))
}

// pathOf 去掉 host, 保留 path 和 query
func pathOf(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.RequestURI()
}

func TestFileServeSignedNotes(t *testing.T) {
	local := newLocal(t)
	put(t, local, "notes", "7/1700000000000.txt", "note body")
	r := newRouter(&File{Config: testConf, Storage: local})

	signed, err := local.SignURL(context.Background(), "notes", "7/1700000000000.txt", time.Minute)
	require.NoError(t, err)

	w := call(r, http.MethodGet, pathOf(t, signed), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "note body", w.Body.String())

	w = call(r, http.MethodGet, "/files/notes/7/1700000000000.txt", "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Link expired or invalid", decode(t, w).Msg)

	tampered := strings.Replace(pathOf(t, signed), "sig=", "sig=0", 1)
	w = call(r, http.MethodGet, tampered, "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 签名绑定 key
	other := strings.Replace(pathOf(t, signed), "1700000000000.txt", "1800000000000.txt", 1)
	w = call(r, http.MethodGet, other, "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	expired, err := local.SignURL(context.Background(), "notes", "7/1700000000000.txt", -time.Minute)
	require.NoError(t, err)
	w = call(r, http.MethodGet, pathOf(t, expired), "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFileServePublicAvatars(t *testing.T) {
	local := newLocal(t)
	put(t, local, "avatars", "7/a.png", "png")
	r := newRouter(&File{Config: testConf, Storage: local})

	w := call(r, http.MethodGet, pathOf(t, local.PublicURL("avatars", "7/a.png")), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())

	w = call(r, http.MethodGet, "/files/avatars/7/missing.png", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type remoteStorage struct {
	storage.Storage
}

func TestFileRouteOnlyForLocalDriver(t *testing.T) {
	r := newRouter(&File{Config: testConf, Storage: remoteStorage{}})
	w := call(r, http.MethodGet, "/files/avatars/7/a.png", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
