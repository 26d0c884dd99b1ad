package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stash/config"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
)

// Oss 阿里云 OSS
type Oss struct {
	Client   *oss.Client
	endpoint string
	baseURL  string
}

var _ Storage = (*Oss)(nil)

func NewOss(cfg *config.OssConfig, baseURL string) *Oss {
	var provider credentials.CredentialsProvider
	if cfg.AccessKeyID != "" {
		provider = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret)
	} else {
		provider = credentials.NewEnvironmentVariableCredentialsProvider()
	}

	endpoint := cfg.Endpoint
	if cfg.InternalEndpoint != "" {
		endpoint = cfg.InternalEndpoint
	}
	ossCfg := oss.LoadDefaultConfig().
		WithEndpoint(endpoint).
		WithRegion(cfg.Region).
		WithCredentialsProvider(provider)

	return &Oss{
		Client:   oss.NewClient(ossCfg),
		endpoint: cfg.Endpoint,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (s *Oss) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	req := &oss.PutObjectRequest{
		Bucket: oss.Ptr(bucket),
		Key:    oss.Ptr(key),
		Body:   r,
	}
	if contentType != "" {
		req.ContentType = oss.Ptr(contentType)
	}
	if size > 0 {
		req.ContentLength = oss.Ptr(size)
	}
	_, err := s.Client.PutObject(ctx, req)
	return err
}

func (s *Oss) Get(ctx context.Context, bucket, key string) (*Object, error) {
	res, err := s.Client.GetObject(ctx, &oss.GetObjectRequest{
		Bucket: oss.Ptr(bucket),
		Key:    oss.Ptr(key),
	})
	if err != nil {
		var serr *oss.ServiceError
		if errors.As(err, &serr) && serr.StatusCode == http.StatusNotFound {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return &Object{
		Body:        res.Body,
		ContentType: oss.ToString(res.ContentType),
		Size:        res.ContentLength,
	}, nil
}

func (s *Oss) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.Client.DeleteObject(ctx, &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(bucket),
		Key:    oss.Ptr(key),
	})
	return err
}

func (s *Oss) SignURL(ctx context.Context, bucket, key string, expire time.Duration) (string, error) {
	res, err := s.Client.Presign(ctx, &oss.GetObjectRequest{
		Bucket: oss.Ptr(bucket),
		Key:    oss.Ptr(key),
	}, oss.PresignExpires(expire))
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

func (s *Oss) PublicURL(bucket, key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	host := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", bucket, host, key)
}
