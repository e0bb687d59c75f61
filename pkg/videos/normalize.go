package videos

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/tubetrend/pkg/integrations/youtube"
)

const (
	// MaxDescription is the description length, in characters, kept by
	// Normalize before an ellipsis is appended.
	MaxDescription = 200

	ellipsis = "..."

	watchURL = "https://www.youtube.com/watch?v="
)

// NormalizeContext carries the per-fetch values stamped onto each record.
type NormalizeContext struct {
	Region    string
	FetchTime time.Time
}

// Normalize flattens one API item into a Record. It never fails: missing
// fields become zero values, an unparseable publish time becomes the zero
// time, and unresolved categories become UnknownCategory. Derived metrics
// are filled too, using ctx.FetchTime.
func Normalize(item youtube.Video, categories map[string]string, ctx NormalizeContext) Record {
	region := strings.ToUpper(strings.TrimSpace(ctx.Region))
	r := Record{
		VideoID:      item.ID,
		VideoURL:     VideoURL(item.ID),
		Title:        item.Snippet.Title,
		ChannelTitle: item.Snippet.ChannelTitle,
		Description:  Truncate(item.Snippet.Description, MaxDescription),
		ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
		CategoryID:   item.Snippet.CategoryID,
		CategoryName: CategoryName(categories, item.Snippet.CategoryID),
		PublishedAt:  ParsePublishedAt(item.Snippet.PublishedAt),
		Views:        int64(item.Statistics.ViewCount),
		Likes:        int64(item.Statistics.LikeCount),
		Comments:     int64(item.Statistics.CommentCount),
		RegionCode:   region,
		RegionName:   RegionName(region),
		Duration:     item.ContentDetails.Duration,
	}
	return annotated(r, ctx.FetchTime)
}

// NormalizeAll normalizes items in order and stamps them with one fetch
// time.
func NormalizeAll(items []youtube.Video, categories map[string]string, ctx NormalizeContext) []Record {
	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, Normalize(item, categories, ctx))
	}
	return records
}

func annotated(r Record, fetchTime time.Time) Record {
	rs := []Record{r}
	Annotate(rs, fetchTime)
	return rs[0]
}

// VideoURL returns the watch page URL for a video id.
func VideoURL(id string) string {
	if id == "" {
		return ""
	}
	return watchURL + id
}

// Truncate shortens s to n characters and appends "..." when s is longer.
// Strings of n characters or fewer are returned unchanged.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + ellipsis
}

// ParsePublishedAt parses an RFC 3339 timestamp into UTC. It returns the
// zero time for empty or malformed input.
func ParsePublishedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
