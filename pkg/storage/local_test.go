package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutGetDelete(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir(), "http://localhost:8080", []byte("secret"))
	require.NoError(t, err)

	require.NoError(t, l.Put(ctx, "notes", "42/1700000000000.md", strings.NewReader("# hello"), 7, "text/markdown"))

	obj, err := l.Get(ctx, "notes", "42/1700000000000.md")
	require.NoError(t, err)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.NoError(t, obj.Body.Close())
	assert.Equal(t, "# hello", string(body))
	assert.Equal(t, int64(7), obj.Size)

	require.NoError(t, l.Delete(ctx, "notes", "42/1700000000000.md"))
	_, err = l.Get(ctx, "notes", "42/1700000000000.md")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// 重复删除不报错
	assert.NoError(t, l.Delete(ctx, "notes", "42/1700000000000.md"))
}

func TestLocalRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir(), "", []byte("secret"))
	require.NoError(t, err)

	assert.Error(t, l.Put(ctx, "notes", "../../etc/passwd", strings.NewReader("x"), 1, ""))
	assert.Error(t, l.Put(ctx, "../notes", "a.txt", strings.NewReader("x"), 1, ""))
	assert.Error(t, l.Put(ctx, "notes", "", strings.NewReader("x"), 1, ""))
}

func TestLocalSignURL(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "http://localhost:8080/", []byte("secret"))
	require.NoError(t, err)

	raw, err := l.SignURL(context.Background(), "notes", "1/2.pdf", time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/files/notes/1/2.pdf", u.Path)

	q := u.Query()
	assert.True(t, l.Verify("notes", "1/2.pdf", q.Get("expires"), q.Get("sig")))
	assert.False(t, l.Verify("notes", "1/3.pdf", q.Get("expires"), q.Get("sig")))
	assert.False(t, l.Verify("notes", "1/2.pdf", "1", q.Get("sig")))
}
