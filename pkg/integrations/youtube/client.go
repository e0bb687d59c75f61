package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	errs "github.com/matzehuels/tubetrend/pkg/errors"
	"github.com/matzehuels/tubetrend/pkg/integrations"
)

// DefaultBaseURL is the YouTube Data API v3 endpoint.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

const (
	partSnippet = "snippet"
	partFull    = "snippet,statistics,contentDetails"
)

// Status is the outcome of [Client.TestConnection].
type Status struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Client provides access to the YouTube Data API v3.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	apiKey  string
	baseURL string
}

// NewClient creates a client that authenticates with apiKey.
// The key is sent as the "key" query parameter on every request.
func NewClient(apiKey string, opts ...integrations.Option) *Client {
	return &Client{
		Client:  integrations.NewClient(opts...),
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at a different API root and returns c.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimRight(base, "/")
	return c
}

// TestConnection checks that the API key works by requesting a single
// popular video. It never returns an error; the outcome is in Status.
func (c *Client) TestConnection(ctx context.Context) Status {
	if c.apiKey == "" {
		return Status{Message: "No API key provided"}
	}

	ctx, cancel := context.WithTimeout(ctx, integrations.ConnectionTimeout)
	defer cancel()

	var resp videoListResponse
	err := c.get(ctx, "videos", url.Values{
		"part":       {partSnippet},
		"chart":      {"mostPopular"},
		"maxResults": {"1"},
	}, &resp)
	if err == nil {
		return Status{OK: true, Message: "API connection successful"}
	}
	return Status{Message: connectionMessage(err)}
}

func connectionMessage(err error) string {
	if se, ok := integrations.AsStatusError(err); ok {
		if se.Status == http.StatusForbidden {
			msg := se.APIMessage
			if msg == "" {
				msg = "API key invalid or quota exceeded"
			}
			return "API Error: " + msg
		}
		return fmt.Sprintf("HTTP Error: %d", se.Status)
	}
	if errs.Is(err, errs.ErrCodeDecode) {
		// A 200 with an unexpected body still proves the key works.
		return "API connection successful"
	}
	return "Connection Error: " + causeText(err)
}

// FetchCategories returns the assignable video categories of region as a
// map of category id to title.
func (c *Client) FetchCategories(ctx context.Context, region string) (map[string]string, error) {
	if err := c.checkKey(); err != nil {
		return nil, err
	}
	if err := errs.ValidateRegion(region); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, integrations.ConnectionTimeout)
	defer cancel()

	var resp categoryListResponse
	if err := c.get(ctx, "videoCategories", url.Values{
		"part":       {partSnippet},
		"regionCode": {strings.ToUpper(region)},
	}, &resp); err != nil {
		return nil, err
	}

	categories := make(map[string]string, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet.Assignable && item.ID != "" {
			categories[item.ID] = item.Snippet.Title
		}
	}
	return categories, nil
}

// FetchTrending returns up to limit videos from the most-popular chart of
// region, optionally narrowed to categoryID. limit is clamped to [1, 50].
func (c *Client) FetchTrending(ctx context.Context, region, categoryID string, limit int) ([]Video, error) {
	if err := c.checkKey(); err != nil {
		return nil, err
	}
	if err := errs.ValidateRegion(region); err != nil {
		return nil, err
	}
	if err := errs.ValidateCategoryID(categoryID); err != nil {
		return nil, err
	}

	limit = errs.ClampLimit(limit)
	var resp videoListResponse
	if err := c.get(ctx, "videos", url.Values{
		"part":            {partFull},
		"chart":           {"mostPopular"},
		"regionCode":      {strings.ToUpper(region)},
		"videoCategoryId": {categoryID},
		"maxResults":      {strconv.Itoa(limit)},
	}, &resp); err != nil {
		return nil, err
	}
	return firstN(resp.Items, limit), nil
}

// SearchVideos finds videos matching query in region, ordered by relevance,
// and returns them with full statistics. It makes two calls: /search to
// resolve ids, then one batched /videos lookup. When the search matches
// nothing the second call is skipped and the result is empty.
func (c *Client) SearchVideos(ctx context.Context, query, region string, limit int) ([]Video, error) {
	if err := c.checkKey(); err != nil {
		return nil, err
	}
	if err := errs.ValidateQuery(query); err != nil {
		return nil, err
	}
	if err := errs.ValidateRegion(region); err != nil {
		return nil, err
	}

	limit = errs.ClampLimit(limit)
	var found searchListResponse
	if err := c.get(ctx, "search", url.Values{
		"part":       {partSnippet},
		"type":       {"video"},
		"q":          {query},
		"regionCode": {strings.ToUpper(region)},
		"order":      {"relevance"},
		"maxResults": {strconv.Itoa(limit)},
	}, &found); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(found.Items))
	for _, item := range found.Items {
		if item.ID.VideoID != "" && len(ids) < limit {
			ids = append(ids, item.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return []Video{}, nil
	}

	var resp videoListResponse
	if err := c.get(ctx, "videos", url.Values{
		"part": {partFull},
		"id":   {strings.Join(ids, ",")},
	}, &resp); err != nil {
		return nil, err
	}
	return firstN(resp.Items, limit), nil
}

// firstN drops anything past n; the API treats maxResults as a hint.
func firstN(items []Video, n int) []Video {
	return items[:min(len(items), n)]
}

func (c *Client) checkKey() error {
	return errs.ValidateAPIKey(c.apiKey)
}

func (c *Client) get(ctx context.Context, path string, q url.Values, v any) error {
	q.Set("key", c.apiKey)
	return c.Get(ctx, integrations.BuildURL(c.baseURL, path, q), v)
}

// causeText returns the transport error underneath the coded wrapper, e.g.
// "dial tcp: connection refused".
func causeText(err error) string {
	if e, ok := err.(*errs.Error); ok && e.Cause != nil {
		return e.Cause.Error()
	}
	return err.Error()
}
