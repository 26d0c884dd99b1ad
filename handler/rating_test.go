package handler

import (
	"context"
	"net/http"
	"testing"

	"stash/service"
	"stash/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRatings struct {
	service.IRatingService
	req *types.RateNoteRequest
}

func (f *fakeRatings) Rate(ctx context.Context, userID uint64, req *types.RateNoteRequest) (*types.RatingSummary, error) {
	f.req = req
	return &types.RatingSummary{NoteID: req.NoteID, AverageRating: float64(req.Rating), RatingsCount: 1}, nil
}

func TestRateBinding(t *testing.T) {
	fake := &fakeRatings{}
	r := newRouter(&Rating{Config: testConf, RatingService: fake})

	w := call(r, http.MethodPost, "/v1/ratings/rate", "", `{"note_id":"1","rating":5}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 超出 float64 精度的 id 原样传递
	w = call(r, http.MethodPost, "/v1/ratings/rate", bearer(t, 2), `{"note_id":"9007199254740993","rating":4,"comment":"clear"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, fake.req)
	assert.Equal(t, uint64(9007199254740993), fake.req.NoteID)
	assert.Equal(t, "clear", fake.req.Comment)
	assert.JSONEq(t, `{"note_id":"9007199254740993","average_rating":4,"ratings_count":1}`, string(decode(t, w).Data))

	for _, body := range []string{
		`{"note_id":"1","rating":6}`,
		`{"note_id":"1"}`,
		`{"note_id":1,"rating":3}`,
		`not json`,
	} {
		fake.req = nil
		w = call(r, http.MethodPost, "/v1/ratings/rate", bearer(t, 2), body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, http.StatusBadRequest, decode(t, w).Code, body)
		assert.Nil(t, fake.req, body)
	}
}
