package handler

import (
	"errors"
	"net/http"
	"strings"

	"stash/config"
	"stash/pkg/context"
	"stash/pkg/log"
	"stash/pkg/response"
	"stash/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// File 本地存储驱动下的文件访问, 头像公开, 笔记需要签名
type File struct {
	Config  *config.Config
	Storage storage.Storage
}

func (f *File) RegisterRouter(r gin.IRouter) {
	if _, ok := f.Storage.(*storage.Local); !ok {
		return
	}
	r.GET("/files/:bucket/*key", context.Wrap(f.Serve))
}

func (f *File) Serve(c *gin.Context) error {
	local := f.Storage.(*storage.Local)
	bucket := c.Param("bucket")
	key := strings.TrimPrefix(c.Param("key"), "/")

	if bucket != f.Config.Storage.AvatarsBucket {
		if !local.Verify(bucket, key, c.Query("expires"), c.Query("sig")) {
			return response.Forbidden("Link expired or invalid")
		}
	}

	obj, err := local.Get(c, bucket, key)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			log.L.Warn("serve local file failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		}
		return response.NotFound("File not found")
	}
	defer obj.Body.Close()

	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, nil)
	return nil
}
