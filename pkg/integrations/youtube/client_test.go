package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	errs "github.com/matzehuels/tubetrend/pkg/errors"
	"github.com/matzehuels/tubetrend/pkg/integrations"
)

// testClient returns a client pointed at server.
func testClient(server *httptest.Server, key string) *Client {
	return NewClient(key, integrations.WithHTTPClient(server.Client())).WithBaseURL(server.URL)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

const videoItem = `{
	"id": "dQw4w9WgXcQ",
	"snippet": {
		"title": "Never Gonna Give You Up",
		"channelTitle": "Rick Astley",
		"categoryId": "10",
		"publishedAt": "2009-10-25T06:57:33Z",
		"description": "The official video",
		"thumbnails": {"medium": {"url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/mqdefault.jpg"}}
	},
	"statistics": {"viewCount": "1500000000", "likeCount": "17000000", "commentCount": "2300000"},
	"contentDetails": {"duration": "PT3M33S"}
}`

func TestNewClient(t *testing.T) {
	c := NewClient("  key  ")
	if c.Client == nil {
		t.Error("expected client to be initialized")
	}
	if c.apiKey != "key" {
		t.Errorf("apiKey = %q, want trimmed key", c.apiKey)
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
}

func TestClient_TestConnection(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantOK  bool
		wantMsg string
	}{
		{"success", 200, `{"items":[]}`, true, "API connection successful"},
		{"quota exceeded", 403, `{"error":{"message":"quota exceeded"}}`, false, "API Error: quota exceeded"},
		{"forbidden without body", 403, ``, false, "API Error: API key invalid or quota exceeded"},
		{"bad request", 400, `{"error":{"message":"API key not valid"}}`, false, "HTTP Error: 400"},
		{"server error", 500, ``, false, "HTTP Error: 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/videos" {
					t.Errorf("path = %q, want /videos", r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("chart") != "mostPopular" || q.Get("maxResults") != "1" || q.Get("part") != "snippet" {
					t.Errorf("unexpected query: %s", r.URL.RawQuery)
				}
				if q.Get("key") != "secret" {
					t.Errorf("key = %q, want secret", q.Get("key"))
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			st := testClient(server, "secret").TestConnection(context.Background())
			if st.OK != tt.wantOK {
				t.Errorf("OK = %v, want %v", st.OK, tt.wantOK)
			}
			if st.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", st.Message, tt.wantMsg)
			}
		})
	}
}

func TestClient_TestConnectionNoKey(t *testing.T) {
	st := NewClient("").TestConnection(context.Background())
	if st.OK || st.Message != "No API key provided" {
		t.Errorf("TestConnection() = %+v, want no-key failure", st)
	}
}

func TestClient_TestConnectionNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := testClient(server, "secret")
	server.Close()

	st := c.TestConnection(context.Background())
	if st.OK {
		t.Fatal("TestConnection() should fail against a closed server")
	}
	if !strings.HasPrefix(st.Message, "Connection Error: ") {
		t.Errorf("Message = %q, want Connection Error prefix", st.Message)
	}
	if strings.Contains(st.Message, "secret") {
		t.Errorf("Message leaks the API key: %q", st.Message)
	}
}

func TestClient_FetchCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videoCategories" {
			t.Errorf("path = %q, want /videoCategories", r.URL.Path)
		}
		if got := r.URL.Query().Get("regionCode"); got != "GB" {
			t.Errorf("regionCode = %q, want GB", got)
		}
		w.Write([]byte(`{"items":[
			{"id":"10","snippet":{"title":"Music","assignable":true}},
			{"id":"18","snippet":{"title":"Short Movies","assignable":false}},
			{"id":"24","snippet":{"title":"Entertainment","assignable":true}}
		]}`))
	}))
	defer server.Close()

	got, err := testClient(server, "k").FetchCategories(context.Background(), "gb")
	if err != nil {
		t.Fatalf("FetchCategories() error: %v", err)
	}
	want := map[string]string{"10": "Music", "24": "Entertainment"}
	if len(got) != len(want) {
		t.Fatalf("FetchCategories() = %v, want %v", got, want)
	}
	for id, name := range want {
		if got[id] != name {
			t.Errorf("category %s = %q, want %q", id, got[id], name)
		}
	}
}

func TestClient_FetchTrending(t *testing.T) {
	tests := []struct {
		name         string
		category     string
		limit        int
		wantCategory string
		wantMax      string
	}{
		{"no category", "", 25, "", "25"},
		{"with category", "10", 25, "10", "25"},
		{"limit clamped high", "", 500, "", "50"},
		{"limit clamped low", "", 0, "", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("chart") != "mostPopular" {
					t.Errorf("chart = %q", q.Get("chart"))
				}
				if q.Get("part") != "snippet,statistics,contentDetails" {
					t.Errorf("part = %q", q.Get("part"))
				}
				if q.Get("regionCode") != "US" {
					t.Errorf("regionCode = %q", q.Get("regionCode"))
				}
				if _, present := q["videoCategoryId"]; present != (tt.wantCategory != "") {
					t.Errorf("videoCategoryId present = %v, want %v", present, tt.wantCategory != "")
				}
				if q.Get("videoCategoryId") != tt.wantCategory {
					t.Errorf("videoCategoryId = %q, want %q", q.Get("videoCategoryId"), tt.wantCategory)
				}
				if q.Get("maxResults") != tt.wantMax {
					t.Errorf("maxResults = %q, want %q", q.Get("maxResults"), tt.wantMax)
				}
				w.Write([]byte(`{"items":[` + videoItem + `]}`))
			}))
			defer server.Close()

			items, err := testClient(server, "k").FetchTrending(context.Background(), "US", tt.category, tt.limit)
			if err != nil {
				t.Fatalf("FetchTrending() error: %v", err)
			}
			if len(items) != 1 {
				t.Fatalf("got %d items, want 1", len(items))
			}
			v := items[0]
			if v.ID != "dQw4w9WgXcQ" || v.Snippet.CategoryID != "10" {
				t.Errorf("unexpected item: %+v", v)
			}
			if v.Statistics.ViewCount != 1500000000 || v.Statistics.CommentCount != 2300000 {
				t.Errorf("statistics = %+v", v.Statistics)
			}
			if v.Snippet.Thumbnails.Medium.URL == "" {
				t.Error("medium thumbnail not decoded")
			}
			if v.ContentDetails.Duration != "PT3M33S" {
				t.Errorf("duration = %q", v.ContentDetails.Duration)
			}
		})
	}
}

func TestClient_FetchTrendingValidation(t *testing.T) {
	c := NewClient("k").WithBaseURL("http://127.0.0.1:0")
	ctx := context.Background()

	if _, err := c.FetchTrending(ctx, "USA", "", 10); !errs.Is(err, errs.ErrCodeInvalidRegion) {
		t.Errorf("bad region error = %v", err)
	}
	if _, err := c.FetchTrending(ctx, "US", "music", 10); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("bad category error = %v", err)
	}
	if _, err := NewClient("").FetchTrending(ctx, "US", "", 10); !errs.Is(err, errs.ErrCodeUnauthorized) {
		t.Errorf("missing key error = %v", err)
	}
}

func TestClient_FetchTrendingForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	_, err := testClient(server, "k").FetchTrending(context.Background(), "US", "", 10)
	if !errs.Is(err, errs.ErrCodeForbidden) {
		t.Fatalf("error = %v, want FORBIDDEN", err)
	}
	if !strings.Contains(errs.UserMessage(err), "quota exceeded") {
		t.Errorf("UserMessage = %q, want quota exceeded", errs.UserMessage(err))
	}
}

func TestClient_SearchVideos(t *testing.T) {
	var videoCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/search":
			if q.Get("q") != "lofi beats" || q.Get("type") != "video" || q.Get("order") != "relevance" {
				t.Errorf("unexpected search query: %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"items":[
				{"id":{"kind":"youtube#video","videoId":"a1"}},
				{"id":{"kind":"youtube#video","videoId":"b2"}}
			]}`))
		case "/videos":
			videoCalls.Add(1)
			if q.Get("id") != "a1,b2" {
				t.Errorf("id = %q, want a1,b2", q.Get("id"))
			}
			if q.Get("chart") != "" {
				t.Error("statistics lookup must not request the chart")
			}
			writeJSON(w, map[string]any{"items": []map[string]any{
				{"id": "a1", "statistics": map[string]any{"viewCount": "10"}},
				{"id": "b2", "statistics": map[string]any{"viewCount": 20}},
			}})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()

	items, err := testClient(server, "k").SearchVideos(context.Background(), "lofi beats", "US", 25)
	if err != nil {
		t.Fatalf("SearchVideos() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[1].Statistics.ViewCount != 20 {
		t.Errorf("numeric viewCount = %d, want 20", items[1].Statistics.ViewCount)
	}
	if videoCalls.Load() != 1 {
		t.Errorf("videos calls = %d, want 1", videoCalls.Load())
	}
}

func TestClient_ResultsCappedAtLimit(t *testing.T) {
	var searchIDs string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			// More matches than asked for.
			w.Write([]byte(`{"items":[
				{"id":{"videoId":"a1"}},
				{"id":{"videoId":"b2"}},
				{"id":{"videoId":"c3"}}
			]}`))
		case "/videos":
			if id := r.URL.Query().Get("id"); id != "" {
				searchIDs = id
				writeJSON(w, map[string]any{"items": []map[string]any{{"id": "a1"}, {"id": "b2"}}})
				return
			}
			writeJSON(w, map[string]any{"items": []map[string]any{{"id": "a1"}, {"id": "b2"}, {"id": "c3"}}})
		}
	}))
	defer server.Close()

	c := testClient(server, "k")
	ctx := context.Background()

	trending, err := c.FetchTrending(ctx, "US", "", 2)
	if err != nil {
		t.Fatalf("FetchTrending() error: %v", err)
	}
	if len(trending) != 2 {
		t.Errorf("trending returned %d items for limit 2", len(trending))
	}

	found, err := c.SearchVideos(ctx, "cats", "US", 2)
	if err != nil {
		t.Fatalf("SearchVideos() error: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("search returned %d items for limit 2", len(found))
	}
	if searchIDs != "a1,b2" {
		t.Errorf("statistics lookup ids = %q, want a1,b2", searchIDs)
	}
}

func TestClient_SearchVideosNoMatches(t *testing.T) {
	var videoCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/videos" {
			videoCalls.Add(1)
		}
		w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	items, err := testClient(server, "k").SearchVideos(context.Background(), "zzzzqqqq", "US", 25)
	if err != nil {
		t.Fatalf("SearchVideos() error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("SearchVideos() = %v, want empty non-nil slice", items)
	}
	if videoCalls.Load() != 0 {
		t.Errorf("statistics endpoint called %d times, want 0", videoCalls.Load())
	}
}

func TestClient_SearchVideosEmptyQuery(t *testing.T) {
	_, err := NewClient("k").SearchVideos(context.Background(), "  ", "US", 10)
	if !errs.Is(err, errs.ErrCodeInvalidQuery) {
		t.Errorf("error = %v, want INVALID_QUERY", err)
	}
}

func TestCountUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want Count
	}{
		{`"12345"`, 12345},
		{`678`, 678},
		{`"1.5e3"`, 1500},
		{`null`, 0},
		{`"abc"`, 0},
		{`"-5"`, 0},
		{`""`, 0},
	}
	for _, tt := range tests {
		var c Count = 99
		if err := json.Unmarshal([]byte(tt.in), &c); err != nil {
			t.Errorf("Unmarshal(%s) error: %v", tt.in, err)
		}
		if c != tt.want {
			t.Errorf("Unmarshal(%s) = %d, want %d", tt.in, c, tt.want)
		}
	}
}

func TestStatisticsMissingFields(t *testing.T) {
	var v Video
	if err := json.Unmarshal([]byte(`{"id":"x","statistics":{"viewCount":"7"}}`), &v); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if v.Statistics.ViewCount != 7 || v.Statistics.LikeCount != 0 || v.Statistics.CommentCount != 0 {
		t.Errorf("statistics = %+v", v.Statistics)
	}
}
