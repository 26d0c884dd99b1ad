package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Local 本地磁盘存储, 用于开发环境和测试
type Local struct {
	root    string
	baseURL string
	secret  []byte
}

var _ Storage = (*Local)(nil)

func NewLocal(root, baseURL string, secret []byte) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Local{root: abs, baseURL: strings.TrimRight(baseURL, "/"), secret: secret}, nil
}

func (l *Local) resolve(bucket, key string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\.`) {
		return "", fmt.Errorf("invalid bucket %q", bucket)
	}
	clean := path.Clean("/" + bucket + "/" + key)
	if !strings.HasPrefix(clean, "/"+bucket+"/") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

func (l *Local) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	full, err := l.resolve(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(full)
		return err
	}
	return f.Close()
}

func (l *Local) Get(ctx context.Context, bucket, key string) (*Object, error) {
	full, err := l.resolve(bucket, key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	contentType := mime.TypeByExtension(filepath.Ext(full))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Object{Body: f, ContentType: contentType, Size: info.Size()}, nil
}

func (l *Local) Delete(ctx context.Context, bucket, key string) error {
	full, err := l.resolve(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SignURL 形如 /files/{bucket}/{key}?expires=..&sig=..
func (l *Local) SignURL(ctx context.Context, bucket, key string, expire time.Duration) (string, error) {
	if _, err := l.resolve(bucket, key); err != nil {
		return "", err
	}
	expires := time.Now().Add(expire).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", l.sign(bucket, key, expires))
	return l.PublicURL(bucket, key) + "?" + q.Encode(), nil
}

func (l *Local) PublicURL(bucket, key string) string {
	return l.baseURL + "/files/" + bucket + "/" + strings.TrimLeft(key, "/")
}

// Verify 校验 SignURL 生成的签名
func (l *Local) Verify(bucket, key, expires, sig string) bool {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || time.Now().Unix() > exp {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(l.sign(bucket, key, exp)))
}

func (l *Local) sign(bucket, key string, expires int64) string {
	mac := hmac.New(sha256.New, l.secret)
	fmt.Fprintf(mac, "%s/%s:%d", bucket, strings.TrimLeft(key, "/"), expires)
	return hex.EncodeToString(mac.Sum(nil))
}
