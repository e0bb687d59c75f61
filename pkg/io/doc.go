// Package io exports fetched video tables as CSV, JSON, or a summary report.
//
// # Formats
//
// [WriteCSV] writes a header row ([Columns]) and one row per record.
// [WriteJSON] writes the records as a JSON array with ISO 8601 timestamps:
//
//	[
//	  {
//	    "video_id": "abc",
//	    "title": "...",
//	    "views": 1200,
//	    "engagement_rate": 4.5,
//	    "published_at": "2024-01-01T00:00:00Z",
//	    ...
//	  }
//	]
//
// [WriteSummary] writes a single object with the export time, region display
// name, data source ("Trending Videos" or "Search Videos"), total videos,
// average views, average engagement, top category, and the full
// [stats.Summary] under "stats".
//
// # Import
//
// [ReadJSON] and [ImportJSON] read a records array back, so a saved export
// can be summarized again offline.
//
// [stats.Summary]: github.com/matzehuels/tubetrend/pkg/stats.Summary
package io
