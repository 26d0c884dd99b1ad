package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelative(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{30 * time.Second, "just now"},
		{90 * time.Second, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{59 * time.Minute, "59 minutes ago"},
		{time.Hour, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{25 * time.Hour, "1 day ago"},
		{3 * day, "3 days ago"},
		{8 * day, "1 week ago"},
		{15 * day, "2 weeks ago"},
		{29 * day, "4 weeks ago"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Relative(now.Add(-tc.ago), now), tc.ago.String())
	}

	assert.Equal(t, "Feb 8, 2026", Relative(now.Add(-30*day), now))
	assert.Equal(t, "just now", Relative(now.Add(time.Minute), now))
}

func TestSize(t *testing.T) {
	assert.Equal(t, "2.1 MB", Size(2100000))
	assert.Equal(t, "0 B", Size(-1))
}
