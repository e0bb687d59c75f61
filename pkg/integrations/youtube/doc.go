// Package youtube provides an HTTP client for the YouTube Data API v3.
//
// # Overview
//
// The client covers the three read-only calls the fetch pipeline needs,
// plus a cheap credential check:
//
//   - [Client.TestConnection]: one-item most-popular request; reports
//     "API connection successful" or a readable failure message
//   - [Client.FetchCategories]: assignable video categories of a region
//   - [Client.FetchTrending]: the most-popular chart of a region,
//     optionally narrowed to one category
//   - [Client.SearchVideos]: relevance-ordered search, followed by one
//     batched statistics lookup for the matched ids
//
// # Usage
//
//	client := youtube.NewClient(os.Getenv("YOUTUBE_API_KEY"))
//	if st := client.TestConnection(ctx); !st.OK {
//	    log.Fatal(st.Message)
//	}
//
//	items, err := client.FetchTrending(ctx, "US", "", 25)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Items are returned as decoded [Video] values. Turning them into flat
// records is the job of the videos package.
//
// # Limits
//
// maxResults is clamped to [1, 50], the API's page size. Requests time out
// after 15 seconds; the connection check and category lookup after 10.
// Failures are coded errors: a 403 is FORBIDDEN with the API's own
// message ("quota exceeded", "API key not valid").
package youtube
