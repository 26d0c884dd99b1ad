package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"stash/config"
)

var ErrObjectNotFound = errors.New("object not found")

// Object 下载得到的对象, Body 需要调用方关闭
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

type Storage interface {
	// Put 上传流
	Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error

	// Get 下载为流
	Get(ctx context.Context, bucket, key string) (*Object, error)

	// Delete 删除对象, 对象不存在时不报错
	Delete(ctx context.Context, bucket, key string) error

	// SignURL 生成临时访问 URL
	SignURL(ctx context.Context, bucket, key string, expire time.Duration) (string, error)

	// PublicURL 公开读 bucket 的访问地址
	PublicURL(bucket, key string) string
}

// New 按配置选择存储驱动
func New(conf *config.Config) (Storage, error) {
	switch conf.Storage.Driver {
	case config.StorageOss:
		if conf.Oss == nil {
			return nil, errors.New("storage driver oss requires oss config")
		}
		return NewOss(conf.Oss, conf.Storage.PublicBaseURL), nil
	case config.StorageS3:
		if conf.S3 == nil {
			return nil, errors.New("storage driver s3 requires s3 config")
		}
		return NewS3(conf.S3, conf.Storage.PublicBaseURL)
	case config.StorageLocal, "":
		return NewLocal(conf.Storage.LocalRoot, conf.Storage.PublicBaseURL, []byte(conf.Jwt.Secret))
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", conf.Storage.Driver)
	}
}
