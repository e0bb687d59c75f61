package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/matzehuels/tubetrend/pkg/stats"
	"github.com/matzehuels/tubetrend/pkg/videos"
)

// Format is an export format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Columns is the CSV header, one column per [videos.Record] field.
var Columns = []string{
	"video_id", "video_url", "title", "channel_title", "description", "thumbnail_url",
	"category_id", "category_name",
	"published_at", "fetch_time", "hours_since_published",
	"views", "likes", "comments",
	"engagement_rate", "comment_rate",
	"region_code", "region_name", "duration",
}

// WriteCSV writes one header row followed by one row per record.
// Timestamps are RFC 3339; a zero publish time is written as an empty cell.
func WriteCSV(recs []videos.Record, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range recs {
		if err := cw.Write(csvRow(r)); err != nil {
			return fmt.Errorf("write %s: %w", r.VideoID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func csvRow(r videos.Record) []string {
	return []string{
		r.VideoID, r.VideoURL, r.Title, r.ChannelTitle, r.Description, r.ThumbnailURL,
		r.CategoryID, r.CategoryName,
		isoTime(r.PublishedAt), isoTime(r.FetchTime), formatFloat(r.HoursSincePublished),
		strconv.FormatInt(r.Views, 10), strconv.FormatInt(r.Likes, 10), strconv.FormatInt(r.Comments, 10),
		formatFloat(r.EngagementRate), formatFloat(r.CommentRate),
		r.RegionCode, r.RegionName, r.Duration,
	}
}

// WriteJSON writes the records as an indented JSON array. Timestamps are
// ISO 8601 and an empty slice is written as [].
func WriteJSON(recs []videos.Record, w io.Writer) error {
	if recs == nil {
		recs = []videos.Record{}
	}
	return encode(w, recs)
}

// SummaryReport is the exported summary object.
type SummaryReport struct {
	ExportTime    time.Time `json:"export_time"`
	Region        string    `json:"region"`
	DataSource    string    `json:"data_source"`
	TotalVideos   int       `json:"total_videos"`
	AvgViews      float64   `json:"avg_views"`
	AvgEngagement float64   `json:"avg_engagement"`
	TopCategory   string    `json:"top_category"`

	Query    string         `json:"query,omitempty"`
	Category string         `json:"category,omitempty"`
	FetchID  string         `json:"fetch_id"`
	Stats    *stats.Summary `json:"stats"`
}

// DataSource returns the human label of a table kind.
func DataSource(kind videos.Kind) string {
	switch kind {
	case videos.KindSearch:
		return "Search Videos"
	default:
		return "Trending Videos"
	}
}

// NewSummaryReport builds the summary object for t stamped with exportTime.
func NewSummaryReport(t *videos.Table, exportTime time.Time) SummaryReport {
	s := stats.Summarize(t)
	return SummaryReport{
		ExportTime:    exportTime.UTC(),
		Region:        videos.RegionName(t.Region),
		DataSource:    DataSource(t.Kind),
		TotalVideos:   s.TotalVideos,
		AvgViews:      s.AvgViews,
		AvgEngagement: s.AvgEngagement,
		TopCategory:   s.TopCategory,
		Query:         t.Query,
		Category:      t.Category,
		FetchID:       t.FetchID,
		Stats:         &s,
	}
}

// WriteSummary writes the summary report of t as indented JSON.
func WriteSummary(t *videos.Table, exportTime time.Time, w io.Writer) error {
	return encode(w, NewSummaryReport(t, exportTime))
}

// Write writes t to w in format f.
func Write(t *videos.Table, f Format, now time.Time, w io.Writer) error {
	switch f {
	case FormatCSV:
		return WriteCSV(t.Records, w)
	case FormatJSON:
		return WriteJSON(t.Records, w)
	case FormatSummary:
		return WriteSummary(t, now, w)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

// Export writes t to a file at path in format f.
// This is a convenience wrapper around [Write] for file-based output.
func Export(t *videos.Table, f Format, now time.Time, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(t, f, now, out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Filename returns the default download name for format f at time now,
// e.g. youtube_live_data_20240101_120000.csv.
func Filename(f Format, now time.Time) string {
	stamp := now.Format("20060102_150405")
	switch f {
	case FormatSummary:
		return "youtube_summary_" + stamp + ".json"
	case FormatCSV:
		return "youtube_live_data_" + stamp + ".csv"
	default:
		return "youtube_live_data_" + stamp + ".json"
	}
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func isoTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
