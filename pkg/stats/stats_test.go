package stats

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/tubetrend/pkg/videos"
)

func rec(id, channel, category string, views, likes, comments int64, eng float64) videos.Record {
	return videos.Record{
		VideoID:        id,
		Title:          "video " + id,
		ChannelTitle:   channel,
		CategoryName:   category,
		Views:          views,
		Likes:          likes,
		Comments:       comments,
		EngagementRate: eng,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	for _, tbl := range []*videos.Table{nil, {Records: []videos.Record{}}} {
		s := Summarize(tbl)
		if s.TopCategory != NoCategory {
			t.Errorf("TopCategory = %q, want %q", s.TopCategory, NoCategory)
		}
		if s.TotalVideos != 0 || s.AvgViews != 0 || s.AvgEngagement != 0 {
			t.Errorf("non-zero aggregates for empty table: %+v", s)
		}
		if s.CategoryCounts == nil || s.TopChannels == nil || s.TopVideos == nil {
			t.Error("ranked lists should be empty, not nil")
		}
	}
}

func TestSummarize(t *testing.T) {
	tbl := &videos.Table{Records: []videos.Record{
		rec("a", "Alpha", "Music", 100, 10, 1, 11),
		rec("b", "Beta", "Gaming", 300, 3, 3, 2),
		rec("c", "Alpha", "Music", 200, 20, 2, 11),
		rec("d", "Gamma", "Gaming", 400, 40, 0, 10),
	}}
	tbl.Records[0].HoursSincePublished = 10
	tbl.Records[1].HoursSincePublished = 30
	tbl.Records[0].CommentRate = 1
	tbl.Records[2].CommentRate = 3

	s := Summarize(tbl)

	if s.TotalVideos != 4 {
		t.Errorf("TotalVideos = %d, want 4", s.TotalVideos)
	}
	if s.TotalViews != 1000 {
		t.Errorf("TotalViews = %d, want 1000", s.TotalViews)
	}
	if s.AvgViews != 250 {
		t.Errorf("AvgViews = %v, want 250", s.AvgViews)
	}
	if s.AvgEngagement != 8.5 {
		t.Errorf("AvgEngagement = %v, want 8.5", s.AvgEngagement)
	}
	if s.AvgCommentRate != 1 {
		t.Errorf("AvgCommentRate = %v, want 1", s.AvgCommentRate)
	}
	if s.AvgHoursToTrend != 10 {
		t.Errorf("AvgHoursToTrend = %v, want 10", s.AvgHoursToTrend)
	}
	// Music and Gaming both have two records; Music appears first.
	if s.TopCategory != "Music" {
		t.Errorf("TopCategory = %q, want Music", s.TopCategory)
	}

	wantCounts := []CategoryCount{{"Music", 2}, {"Gaming", 2}}
	if diff := cmp.Diff(wantCounts, s.CategoryCounts); diff != "" {
		t.Errorf("CategoryCounts mismatch (-want +got):\n%s", diff)
	}

	wantEng := []CategoryEngagement{{"Music", 11}, {"Gaming", 6}}
	if diff := cmp.Diff(wantEng, s.EngagementByCategory, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("EngagementByCategory mismatch (-want +got):\n%s", diff)
	}

	wantChannels := []ChannelStats{
		{Channel: "Gamma", Views: 400, Likes: 40, Comments: 0, VideoCount: 1, AvgViewsPerVideo: 400},
		{Channel: "Alpha", Views: 300, Likes: 30, Comments: 3, VideoCount: 2, AvgViewsPerVideo: 150},
		{Channel: "Beta", Views: 300, Likes: 3, Comments: 3, VideoCount: 1, AvgViewsPerVideo: 300},
	}
	if diff := cmp.Diff(wantChannels, s.TopChannels); diff != "" {
		t.Errorf("TopChannels mismatch (-want +got):\n%s", diff)
	}

	// sorted engagement [2 10 11 11], q=0.8 → pos 2.4 → 11
	if s.HighEngagementThreshold != 11 {
		t.Errorf("HighEngagementThreshold = %v, want 11", s.HighEngagementThreshold)
	}
	if s.HighEngagementCount != 0 {
		t.Errorf("HighEngagementCount = %d, want 0", s.HighEngagementCount)
	}

	var ids []string
	for _, v := range s.TopVideos {
		ids = append(ids, v.VideoID)
	}
	if diff := cmp.Diff([]string{"d", "b", "c", "a"}, ids); diff != "" {
		t.Errorf("TopVideos order mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeTruncatesRankedLists(t *testing.T) {
	var recs []videos.Record
	for i := 0; i < 30; i++ {
		id := string(rune('A' + i))
		recs = append(recs, rec(id, "ch"+id, "cat"+id, int64(i), 0, 0, float64(i)))
	}
	s := Summarize(&videos.Table{Records: recs})

	if len(s.CategoryCounts) != TopCategoriesN {
		t.Errorf("len(CategoryCounts) = %d, want %d", len(s.CategoryCounts), TopCategoriesN)
	}
	if len(s.EngagementByCategory) != TopEngagementN {
		t.Errorf("len(EngagementByCategory) = %d, want %d", len(s.EngagementByCategory), TopEngagementN)
	}
	if len(s.TopChannels) != TopChannelsN {
		t.Errorf("len(TopChannels) = %d, want %d", len(s.TopChannels), TopChannelsN)
	}
	if len(s.TopVideos) != TopVideosN {
		t.Errorf("len(TopVideos) = %d, want %d", len(s.TopVideos), TopVideosN)
	}
	if s.TopVideos[0].Views != 29 {
		t.Errorf("TopVideos[0].Views = %d, want 29", s.TopVideos[0].Views)
	}
	// All counts tie at 1, so the first record's category wins.
	if s.TopCategory != "catA" {
		t.Errorf("TopCategory = %q, want catA", s.TopCategory)
	}
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		q      float64
		want   float64
	}{
		{"empty", nil, 0.8, 0},
		{"single", []float64{7}, 0.8, 7},
		{"interpolated", []float64{5, 1, 4, 2, 3}, 0.8, 4.2},
		{"exact rank", []float64{1, 2, 3}, 0.5, 2},
		{"min", []float64{3, 1, 2}, 0, 1},
		{"max", []float64{3, 1, 2}, 1, 3},
		{"clamped", []float64{3, 1, 2}, 1.5, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quantile(tt.values, tt.q)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Quantile(%v, %v) = %v, want %v", tt.values, tt.q, got, tt.want)
			}
		})
	}

	values := []float64{3, 1, 2}
	Quantile(values, 0.5)
	if values[0] != 3 {
		t.Error("Quantile modified its input")
	}
}

func TestHighEngagementCount(t *testing.T) {
	tbl := &videos.Table{Records: []videos.Record{
		rec("a", "x", "c", 1, 0, 0, 1),
		rec("b", "x", "c", 1, 0, 0, 2),
		rec("c", "x", "c", 1, 0, 0, 3),
		rec("d", "x", "c", 1, 0, 0, 4),
		rec("e", "x", "c", 1, 0, 0, 5),
	}}
	s := Summarize(tbl)
	if math.Abs(s.HighEngagementThreshold-4.2) > 1e-9 {
		t.Errorf("threshold = %v, want 4.2", s.HighEngagementThreshold)
	}
	if s.HighEngagementCount != 1 {
		t.Errorf("HighEngagementCount = %d, want 1", s.HighEngagementCount)
	}
}

func TestSortBy(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recs := []videos.Record{
		rec("a", "x", "c", 10, 5, 1, 2.5),
		rec("b", "x", "c", 30, 1, 9, 0.5),
		rec("c", "x", "c", 10, 9, 4, 7.0),
	}
	recs[0].PublishedAt = base.Add(2 * time.Hour)
	recs[1].PublishedAt = base
	recs[2].PublishedAt = base.Add(time.Hour)

	tests := []struct {
		field SortField
		desc  bool
		want  []string
	}{
		{SortViews, true, []string{"b", "a", "c"}},
		{SortViews, false, []string{"a", "c", "b"}},
		{SortLikes, true, []string{"c", "a", "b"}},
		{SortComments, true, []string{"b", "c", "a"}},
		{SortEngagement, true, []string{"c", "a", "b"}},
		{SortPublished, true, []string{"a", "c", "b"}},
		{SortPublished, false, []string{"b", "c", "a"}},
		{"", true, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		got := SortBy(recs, tt.field, tt.desc)
		var ids []string
		for _, r := range got {
			ids = append(ids, r.VideoID)
		}
		if diff := cmp.Diff(tt.want, ids); diff != "" {
			t.Errorf("SortBy(%q, desc=%v) mismatch (-want +got):\n%s", tt.field, tt.desc, diff)
		}
	}
	if recs[0].VideoID != "a" || recs[1].VideoID != "b" {
		t.Error("SortBy modified its input")
	}
}

func TestParseSortField(t *testing.T) {
	for _, in := range []string{"views", " Likes ", "ENGAGEMENT", "published", "comments"} {
		if _, err := ParseSortField(in); err != nil {
			t.Errorf("ParseSortField(%q) error: %v", in, err)
		}
	}
	if f, err := ParseSortField(""); err != nil || f != "" {
		t.Errorf("ParseSortField(\"\") = %q, %v", f, err)
	}
	if _, err := ParseSortField("duration"); err == nil {
		t.Error("ParseSortField(duration) should fail")
	}
}
