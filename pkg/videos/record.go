package videos

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies which upstream call produced a table.
type Kind string

const (
	KindTrending Kind = "trending"
	KindSearch   Kind = "search"
)

// Record is one flattened video. Derived fields (rates and hours) are
// filled by [Annotate]; every numeric field is finite and non-negative.
type Record struct {
	VideoID      string `json:"video_id"`
	VideoURL     string `json:"video_url"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`

	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`

	PublishedAt         time.Time `json:"published_at"`
	FetchTime           time.Time `json:"fetch_time"`
	HoursSincePublished float64   `json:"hours_since_published"`

	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`

	EngagementRate float64 `json:"engagement_rate"`
	CommentRate    float64 `json:"comment_rate"`

	RegionCode string `json:"region_code"`
	RegionName string `json:"region_name"`
	Duration   string `json:"duration"`
}

// Table is the result of one fetch: its records in upstream order plus the
// parameters that produced it. Every record shares FetchTime.
type Table struct {
	FetchID   string    `json:"fetch_id"`
	FetchTime time.Time `json:"fetch_time"`
	Kind      Kind      `json:"kind"`
	Region    string    `json:"region"`
	Category  string    `json:"category,omitempty"`
	Query     string    `json:"query,omitempty"`
	Limit     int       `json:"limit"`
	Records   []Record  `json:"records"`
}

// NewTable creates an empty table stamped with a fresh fetch id.
func NewTable(kind Kind, region string, fetchTime time.Time) *Table {
	return &Table{
		FetchID:   uuid.NewString(),
		FetchTime: fetchTime.UTC(),
		Kind:      kind,
		Region:    region,
		Records:   []Record{},
	}
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.Records) }

// Empty reports whether the table holds no records.
func (t *Table) Empty() bool { return len(t.Records) == 0 }
