package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stash/config"
	ctxutil "stash/pkg/context"
	"stash/pkg/jwt"
	"stash/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jwtConf = &config.Jwt{Secret: "test-secret", AccessTTL: time.Hour}

type fakeChecker map[uint64]bool

func (f fakeChecker) IsAdmin(ctx context.Context, userID uint64) (bool, error) {
	if userID == 500 {
		return false, errors.New("db down")
	}
	return f[userID], nil
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		response.Success(c, gin.H{"user_id": ctxutil.OptionalUserID(c)})
	})
	r.GET("/ping", handlers...)
	return r
}

func token(t *testing.T, userID uint64, ttl time.Duration) string {
	t.Helper()
	tok, err := jwt.GenerateToken([]byte(jwtConf.Secret), userID, "a@stash.test", jwt.TypeAccess, ttl)
	require.NoError(t, err)
	return tok
}

func do(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuth(t *testing.T) {
	r := newRouter(Auth(jwtConf))

	w := do(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Please sign in first", decode(t, w).Msg)

	w = do(r, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "Bearer "+token(t, 7, -time.Minute))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	refresh, err := jwt.GenerateToken([]byte(jwtConf.Secret), 7, "a@stash.test", jwt.TypeRefresh, time.Hour)
	require.NoError(t, err)
	w = do(r, "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "Bearer "+token(t, 7, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"user_id": float64(7)}, decode(t, w).Data)
	assert.Empty(t, w.Header().Get("X-New-Access-Token"))
}

func TestAuthRenewsExpiringToken(t *testing.T) {
	r := newRouter(Auth(jwtConf))

	w := do(r, "Bearer "+token(t, 7, time.Minute))
	require.Equal(t, http.StatusOK, w.Code)
	renewed := w.Header().Get("X-New-Access-Token")
	require.NotEmpty(t, renewed)

	claims, err := jwt.ParseToken([]byte(jwtConf.Secret), jwt.TypeAccess, renewed)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.False(t, jwt.ExpiresWithin(claims, renewWindow))
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter(OptionalAuth(jwtConf))

	w := do(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"user_id": float64(0)}, decode(t, w).Data)

	w = do(r, "Bearer broken")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"user_id": float64(0)}, decode(t, w).Data)

	w = do(r, "Bearer "+token(t, 9, time.Hour))
	assert.Equal(t, map[string]any{"user_id": float64(9)}, decode(t, w).Data)
}

func TestAdminOnly(t *testing.T) {
	checker := fakeChecker{1: true}
	r := newRouter(Auth(jwtConf), AdminOnly(checker))

	w := do(r, "Bearer "+token(t, 1, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, "Bearer "+token(t, 2, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admin access required", decode(t, w).Msg)

	w = do(r, "Bearer "+token(t, 500, time.Hour))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = do(newRouter(AdminOnly(checker)), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
