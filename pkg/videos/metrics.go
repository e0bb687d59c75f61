package videos

import (
	"math"
	"time"
)

// EngagementRate returns likes per view as a percentage, or 0 when views
// is zero.
func EngagementRate(likes, views int64) float64 {
	return percent(likes, views)
}

// CommentRate returns comments per view as a percentage, or 0 when views
// is zero.
func CommentRate(comments, views int64) float64 {
	return percent(comments, views)
}

func percent(part, whole int64) float64 {
	if whole <= 0 || part <= 0 {
		return 0
	}
	return finite(float64(part) / float64(whole) * 100)
}

// HoursSince returns the hours elapsed between published and now. A zero
// published time (unparseable upstream value) or one in the future yields 0.
func HoursSince(published, now time.Time) float64 {
	if published.IsZero() || now.IsZero() {
		return 0
	}
	h := now.UTC().Sub(published.UTC()).Hours()
	if h < 0 {
		return 0
	}
	return finite(h)
}

// Annotate stamps every record with fetchTime and fills its derived
// metrics. It never fails; bad inputs produce zeros.
func Annotate(records []Record, fetchTime time.Time) {
	fetchTime = fetchTime.UTC()
	for i := range records {
		r := &records[i]
		r.FetchTime = fetchTime
		r.EngagementRate = EngagementRate(r.Likes, r.Views)
		r.CommentRate = CommentRate(r.Comments, r.Views)
		r.HoursSincePublished = HoursSince(r.PublishedAt, fetchTime)
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
