package youtube

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Video is one item of a /videos response, decoded as-is. Every field may
// be missing; consumers must tolerate zero values.
type Video struct {
	ID             string         `json:"id"`
	Snippet        Snippet        `json:"snippet"`
	Statistics     Statistics     `json:"statistics"`
	ContentDetails ContentDetails `json:"contentDetails"`
}

// Snippet holds the descriptive part of a video.
type Snippet struct {
	Title        string     `json:"title"`
	ChannelTitle string     `json:"channelTitle"`
	CategoryID   string     `json:"categoryId"`
	PublishedAt  string     `json:"publishedAt"` // RFC 3339, unparsed
	Description  string     `json:"description"`
	Thumbnails   Thumbnails `json:"thumbnails"`
}

// Thumbnails lists the thumbnail sizes used downstream.
type Thumbnails struct {
	Default Thumbnail `json:"default"`
	Medium  Thumbnail `json:"medium"`
	High    Thumbnail `json:"high"`
}

// Thumbnail is a single thumbnail image.
type Thumbnail struct {
	URL string `json:"url"`
}

// Statistics holds the public counters of a video. The API serializes
// them as decimal strings; hidden counters are omitted.
type Statistics struct {
	ViewCount    Count `json:"viewCount"`
	LikeCount    Count `json:"likeCount"`
	CommentCount Count `json:"commentCount"`
}

// ContentDetails holds technical details of a video.
type ContentDetails struct {
	Duration string `json:"duration"` // ISO 8601, e.g. "PT4M13S"
}

// Count is a non-negative counter that decodes from a JSON string or
// number. Anything else (null, garbage, negative values) decodes to 0
// rather than failing the whole response.
type Count int64

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	*c = 0
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(s)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		// Large counts occasionally arrive in float notation.
		f, ferr := strconv.ParseFloat(string(data), 64)
		if ferr != nil || math.IsNaN(f) || f < 0 || f > 1<<62 {
			return nil
		}
		n = int64(f)
	}
	if n > 0 {
		*c = Count(n)
	}
	return nil
}

type videoListResponse struct {
	Items []Video `json:"items"`
}

type categoryListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title      string `json:"title"`
			Assignable bool   `json:"assignable"`
		} `json:"snippet"`
	} `json:"items"`
}

type searchListResponse struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}
