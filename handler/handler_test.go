package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stash/config"
	"stash/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testConf = &config.Config{
	Jwt:     &config.Jwt{Secret: "handler-secret", AccessTTL: time.Hour},
	Storage: &config.Storage{NotesBucket: "notes", AvatarsBucket: "avatars"},
}

type router interface {
	RegisterRouter(r gin.IRouter)
}

func newRouter(hs ...router) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	for _, h := range hs {
		h.RegisterRouter(r)
	}
	return r
}

func bearer(t *testing.T, userID uint64) string {
	t.Helper()
	tok, err := jwt.GenerateToken([]byte(testConf.Jwt.Secret), userID, "a@stash.test", jwt.TypeAccess, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

// call 发起请求, body 非空时按 JSON 发送
func call(r http.Handler, method, target, authorization, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envelope 解析统一响应, data 保留原始 JSON
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}
