package context

import (
	"errors"
	"net/http"

	"stash/pkg/log"
	"stash/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

type HandlerFunc func(*gin.Context) error

func Wrap(h func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {

			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			// 业务错误
			var be *response.BizError
			if errors.As(err, &be) {
				c.JSON(be.HTTPStatus(), response.Response{
					Code: be.Code,
					Msg:  be.Msg,
				})
				return
			}
			log.L.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, response.Response{
				Code: http.StatusInternalServerError,
				Msg:  "internal server error",
			})
		}
	}
}

func GetUserID(c *gin.Context) (uint64, error) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, errors.New("user_id not found")
	}

	uid, ok := v.(uint64)
	if !ok || uid == 0 {
		return 0, errors.New("user_id invalid")
	}

	return uid, nil
}

// MustUserID 需要登录的接口使用, 未登录返回 401
func MustUserID(c *gin.Context) (uint64, error) {
	uid, err := GetUserID(c)
	if err != nil {
		return 0, response.Unauthorized("Please sign in first")
	}
	return uid, nil
}

// OptionalUserID 未登录时返回 0
func OptionalUserID(c *gin.Context) uint64 {
	uid, _ := GetUserID(c)
	return uid
}

func GetEmail(c *gin.Context) string {
	return c.GetString(CtxEmail)
}
