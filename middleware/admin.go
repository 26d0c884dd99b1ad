package middleware

import (
	"context"
	"net/http"

	ctxutil "stash/pkg/context"
	"stash/pkg/log"
	"stash/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uint64) (bool, error)
}

// AdminOnly 需放在 Auth 之后
func AdminOnly(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := ctxutil.GetUserID(c)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Please sign in first")
			return
		}
		ok, err := checker.IsAdmin(c.Request.Context(), uid)
		if err != nil {
			log.L.Error("check admin failed", zap.Uint64("user_id", uid), zap.Error(err))
			response.Abort(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if !ok {
			response.Abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}
