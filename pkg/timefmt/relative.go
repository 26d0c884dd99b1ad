package timefmt

import (
	"time"

	"github.com/dustin/go-humanize"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
)

var magnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "just now", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * day, Format: "1 day %s", DivBy: 1},
	{D: week, Format: "%d days %s", DivBy: day},
	{D: 2 * week, Format: "1 week %s", DivBy: 1},
	{D: month, Format: "%d weeks %s", DivBy: week},
}

// Relative 评论时间展示. 30 天以上直接显示日期
func Relative(t, now time.Time) string {
	if now.Sub(t) >= month {
		return t.Format("Jan 2, 2006")
	}
	if t.After(now) {
		return "just now"
	}
	return humanize.CustomRelTime(t, now, "ago", "from now", magnitudes)
}

// Ago 以当前时间为基准
func Ago(t time.Time) string {
	return Relative(t, time.Now())
}

// Size 文件大小, 例如 2.1 MB
func Size(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
