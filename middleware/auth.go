package middleware

import (
	"net/http"
	"strings"
	"time"

	"stash/config"
	"stash/pkg/context"
	"stash/pkg/jwt"
	"stash/pkg/response"

	"github.com/gin-gonic/gin"
)

// renewWindow access token 剩余有效期小于该值时下发新 token
const renewWindow = 5 * time.Minute

// Auth 必须登录
func Auth(conf *config.Jwt) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "Please sign in first")
			return
		}
		if err := authenticate(c, conf, authHeader); err != nil {
			response.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Next()
	}
}

// OptionalAuth 有 token 时解析用户, 没有或无效时按游客处理
func OptionalAuth(conf *config.Jwt) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			_ = authenticate(c, conf, authHeader)
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, conf *config.Jwt, authHeader string) error {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return response.Unauthorized("Invalid authorization header")
	}

	secret := []byte(conf.Secret)
	claims, err := jwt.ParseToken(secret, jwt.TypeAccess, strings.TrimSpace(parts[1]))
	if err != nil {
		return response.Unauthorized("Session expired, please sign in again")
	}
	if jwt.ExpiresWithin(claims, renewWindow) {
		if newToken, err := jwt.GenerateToken(secret, claims.UserID, claims.Email, jwt.TypeAccess, conf.AccessTTL); err == nil {
			c.Header("X-New-Access-Token", newToken)
		}
	}
	c.Set(context.CtxUserID, claims.UserID)
	c.Set(context.CtxEmail, claims.Email)
	return nil
}
