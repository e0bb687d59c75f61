package cache

import "strings"

// Keyer derives cache keys from call parameters.
//
// Keys never include the API key or any caller identity: two callers asking
// for the same region, category, query and limit share an entry.
type Keyer interface {
	CategoriesKey(region string) string
	TrendingKey(region, categoryID string, limit int) string
	SearchKey(query, region string, limit int) string
}

// DefaultKeyer produces keys of the form "<kind>:<sha256 of params>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CategoriesKey returns the key for a region's category list.
func (DefaultKeyer) CategoriesKey(region string) string {
	return hashKey(KindCategories, normRegion(region))
}

// TrendingKey returns the key for a most-popular chart request.
// An empty categoryID means "all categories".
func (DefaultKeyer) TrendingKey(region, categoryID string, limit int) string {
	return hashKey(KindTrending, normRegion(region), strings.TrimSpace(categoryID), limit)
}

// SearchKey returns the key for a search request.
func (DefaultKeyer) SearchKey(query, region string, limit int) string {
	return hashKey(KindSearch, strings.TrimSpace(query), normRegion(region), limit)
}

func normRegion(r string) string {
	return strings.ToUpper(strings.TrimSpace(r))
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
