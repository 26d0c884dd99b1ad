package context

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"stash/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h HandlerFunc) (*httptest.ResponseRecorder, response.Response) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", Wrap(h))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestWrapEnvelope(t *testing.T) {
	w, resp := serve(func(c *gin.Context) error {
		response.Success(c, gin.H{"id": "42"})
		return nil
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"msg":"ok","data":{"id":"42"}}`, w.Body.String())
	assert.Equal(t, 0, resp.Code)
}

func TestWrapErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   int
		msg    string
	}{
		{"biz", response.NotFound("Note not found"), http.StatusNotFound, http.StatusNotFound, "Note not found"},
		{"wrapped biz", fmt.Errorf("rate: %w", response.TooManyRequests()), http.StatusTooManyRequests, http.StatusTooManyRequests, "Too many requests, please retry later"},
		{"custom code", response.NewError(10001, "quota used up"), http.StatusOK, 10001, "quota used up"},
		{"internal", errors.New("dial tcp: refused"), http.StatusInternalServerError, http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := serve(func(c *gin.Context) error { return tc.err })
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, resp.Code)
			assert.Equal(t, tc.msg, resp.Msg)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestWrapKeepsWrittenResponse(t *testing.T) {
	w, _ := serve(func(c *gin.Context) error {
		c.String(http.StatusAccepted, "partial")
		return errors.New("late failure")
	})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestMustUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := MustUserID(c)
	var be *response.BizError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusUnauthorized, be.Code)
	assert.Zero(t, OptionalUserID(c))

	c.Set(CtxUserID, uint64(7))
	uid, err := MustUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), uid)
}
