package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"stash/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func corsRouter(app *config.App) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(corsMiddleware(app))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func corsGet(r http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", origin)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSAnyOriginWithoutCredentials(t *testing.T) {
	w := corsGet(corsRouter(&config.App{}), "https://evil.test")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSConfiguredOrigins(t *testing.T) {
	r := corsRouter(&config.App{AllowOrigins: []string{"https://stash.test"}})

	w := corsGet(r, "https://stash.test")
	assert.Equal(t, "https://stash.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = corsGet(r, "https://evil.test")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRunReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	app := &AppProvider{
		Config: &config.Config{Server: &config.Server{Http: ln.Addr().(*net.TCPAddr).Port}},
		Engine: gin.New(),
	}
	eg, ctx := errgroup.WithContext(context.Background())
	err = run(make(chan os.Signal, 1), eg, ctx, app)
	assert.Error(t, err)
}
