// Package stats computes aggregate statistics over a fetched table.
//
// [Summarize] is a pure function of a [videos.Table]. Ranked lists are
// deterministic: ties keep the order in which their first member appears
// in the table, so the same table always yields the same summary.
package stats

import (
	"math"
	"slices"

	"github.com/matzehuels/tubetrend/pkg/videos"
)

// Limits for the ranked lists in a Summary.
const (
	TopCategoriesN  = 10
	TopEngagementN  = 8
	TopChannelsN    = 15
	TopVideosN      = 10
	HighEngagementQ = 0.8
)

// NoCategory is reported as TopCategory for an empty table.
const NoCategory = "N/A"

// Summary holds aggregate statistics for one table.
type Summary struct {
	TotalVideos     int     `json:"total_videos"`
	TotalViews      int64   `json:"total_views"`
	AvgViews        float64 `json:"avg_views"`
	AvgEngagement   float64 `json:"avg_engagement"`
	AvgCommentRate  float64 `json:"avg_comment_rate"`
	AvgHoursToTrend float64 `json:"avg_hours_to_trend"`
	TopCategory     string  `json:"top_category"`

	CategoryCounts       []CategoryCount      `json:"category_counts"`
	EngagementByCategory []CategoryEngagement `json:"engagement_by_category"`
	TopChannels          []ChannelStats       `json:"top_channels"`

	// HighEngagementThreshold is the 80th percentile of engagement rate;
	// HighEngagementCount counts records strictly above it.
	HighEngagementThreshold float64 `json:"high_engagement_threshold"`
	HighEngagementCount     int     `json:"high_engagement_count"`

	TopVideos []VideoRef `json:"top_videos"`
}

// CategoryCount is the number of records in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryEngagement is the mean engagement rate of one category.
type CategoryEngagement struct {
	Category      string  `json:"category"`
	AvgEngagement float64 `json:"avg_engagement"`
}

// ChannelStats aggregates the records of one channel.
type ChannelStats struct {
	Channel          string  `json:"channel"`
	Views            int64   `json:"views"`
	Likes            int64   `json:"likes"`
	Comments         int64   `json:"comments"`
	VideoCount       int     `json:"video_count"`
	AvgViewsPerVideo float64 `json:"avg_views_per_video"`
}

// VideoRef is a compact view of one record for ranked lists.
type VideoRef struct {
	VideoID        string  `json:"video_id"`
	Title          string  `json:"title"`
	ChannelTitle   string  `json:"channel_title"`
	CategoryName   string  `json:"category_name"`
	Views          int64   `json:"views"`
	Likes          int64   `json:"likes"`
	EngagementRate float64 `json:"engagement_rate"`
}

// Summarize computes the aggregate statistics of t.
// An empty or nil table yields zero values and TopCategory "N/A".
func Summarize(t *videos.Table) Summary {
	s := Summary{
		TopCategory:          NoCategory,
		CategoryCounts:       []CategoryCount{},
		EngagementByCategory: []CategoryEngagement{},
		TopChannels:          []ChannelStats{},
		TopVideos:            []VideoRef{},
	}
	if t == nil || len(t.Records) == 0 {
		return s
	}
	recs := t.Records
	n := float64(len(recs))

	var engSum, comSum, hourSum float64
	engagement := make([]float64, len(recs))
	for i, r := range recs {
		s.TotalViews += r.Views
		engSum += r.EngagementRate
		comSum += r.CommentRate
		hourSum += r.HoursSincePublished
		engagement[i] = r.EngagementRate
	}
	s.TotalVideos = len(recs)
	s.AvgViews = float64(s.TotalViews) / n
	s.AvgEngagement = engSum / n
	s.AvgCommentRate = comSum / n
	s.AvgHoursToTrend = hourSum / n

	counts := CategoryCounts(recs)
	s.TopCategory = counts[0].Category
	s.CategoryCounts = head(counts, TopCategoriesN)
	s.EngagementByCategory = head(EngagementByCategory(recs), TopEngagementN)
	s.TopChannels = head(Channels(recs), TopChannelsN)

	s.HighEngagementThreshold = Quantile(engagement, HighEngagementQ)
	for _, e := range engagement {
		if e > s.HighEngagementThreshold {
			s.HighEngagementCount++
		}
	}

	for _, r := range head(SortBy(recs, SortViews, true), TopVideosN) {
		s.TopVideos = append(s.TopVideos, VideoRef{
			VideoID:        r.VideoID,
			Title:          r.Title,
			ChannelTitle:   r.ChannelTitle,
			CategoryName:   r.CategoryName,
			Views:          r.Views,
			Likes:          r.Likes,
			EngagementRate: r.EngagementRate,
		})
	}
	return s
}

// CategoryCounts counts records per category name, most frequent first.
// Ties keep first-appearance order.
func CategoryCounts(recs []videos.Record) []CategoryCount {
	var out []CategoryCount
	index := map[string]int{}
	for _, r := range recs {
		i, ok := index[r.CategoryName]
		if !ok {
			i = len(out)
			index[r.CategoryName] = i
			out = append(out, CategoryCount{Category: r.CategoryName})
		}
		out[i].Count++
	}
	slices.SortStableFunc(out, func(a, b CategoryCount) int { return b.Count - a.Count })
	return out
}

// EngagementByCategory returns mean engagement rate per category, highest
// first. Ties keep first-appearance order.
func EngagementByCategory(recs []videos.Record) []CategoryEngagement {
	var out []CategoryEngagement
	var counts []int
	index := map[string]int{}
	for _, r := range recs {
		i, ok := index[r.CategoryName]
		if !ok {
			i = len(out)
			index[r.CategoryName] = i
			out = append(out, CategoryEngagement{Category: r.CategoryName})
			counts = append(counts, 0)
		}
		out[i].AvgEngagement += r.EngagementRate
		counts[i]++
	}
	for i := range out {
		out[i].AvgEngagement /= float64(counts[i])
	}
	slices.SortStableFunc(out, func(a, b CategoryEngagement) int { return cmpDesc(a.AvgEngagement, b.AvgEngagement) })
	return out
}

// Channels aggregates records per channel, highest total views first.
// Ties keep first-appearance order.
func Channels(recs []videos.Record) []ChannelStats {
	var out []ChannelStats
	index := map[string]int{}
	for _, r := range recs {
		i, ok := index[r.ChannelTitle]
		if !ok {
			i = len(out)
			index[r.ChannelTitle] = i
			out = append(out, ChannelStats{Channel: r.ChannelTitle})
		}
		c := &out[i]
		c.Views += r.Views
		c.Likes += r.Likes
		c.Comments += r.Comments
		c.VideoCount++
	}
	for i := range out {
		out[i].AvgViewsPerVideo = float64(out[i].Views) / float64(out[i].VideoCount)
	}
	slices.SortStableFunc(out, func(a, b ChannelStats) int { return cmpDesc(float64(a.Views), float64(b.Views)) })
	return out
}

// Quantile returns the q-quantile of values using linear interpolation
// between closest ranks. It returns 0 for an empty slice and does not
// modify values.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	q = math.Max(0, math.Min(1, q))

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func cmpDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
