package stats

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/tubetrend/pkg/errors"
	"github.com/matzehuels/tubetrend/pkg/videos"
)

// SortField names a record field records can be ordered by.
type SortField string

const (
	SortViews      SortField = "views"
	SortLikes      SortField = "likes"
	SortComments   SortField = "comments"
	SortEngagement SortField = "engagement"
	SortPublished  SortField = "published"
)

// SortFields lists the accepted sort fields.
var SortFields = []SortField{SortViews, SortLikes, SortComments, SortEngagement, SortPublished}

// ParseSortField parses a sort field name, case-insensitively. The empty
// string means no reordering.
func ParseSortField(s string) (SortField, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, f := range SortFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "invalid sort field %q (must be one of: views, likes, comments, engagement, published)", s)
}

// SortBy returns a copy of recs ordered by field. Equal values keep their
// upstream order. An empty field returns the copy unchanged.
func SortBy(recs []videos.Record, field SortField, desc bool) []videos.Record {
	out := slices.Clone(recs)
	key := sortKey(field)
	if key == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b videos.Record) int {
		c := cmpDesc(key(b), key(a)) // ascending
		if desc {
			c = -c
		}
		return c
	})
	return out
}

func sortKey(field SortField) func(videos.Record) float64 {
	switch field {
	case SortViews:
		return func(r videos.Record) float64 { return float64(r.Views) }
	case SortLikes:
		return func(r videos.Record) float64 { return float64(r.Likes) }
	case SortComments:
		return func(r videos.Record) float64 { return float64(r.Comments) }
	case SortEngagement:
		return func(r videos.Record) float64 { return r.EngagementRate }
	case SortPublished:
		return func(r videos.Record) float64 { return float64(r.PublishedAt.Unix()) }
	}
	return nil
}
