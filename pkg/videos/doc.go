// Package videos turns raw API items into flat, annotated records.
//
// # Records
//
// A [Record] is one video with its descriptive fields, counts, and derived
// metrics. A [Table] groups the records of one fetch; all of them share the
// table's fetch time.
//
// # Pipeline Stages
//
//  1. [CategoryName] resolves a category id against a region's category
//     map, falling back to "Unknown".
//  2. [Normalize] flattens a youtube.Video: descriptions are cut to 200
//     characters plus "...", counts default to 0, publish times parse as
//     RFC 3339 UTC.
//  3. [Annotate] computes engagement rate (likes/views×100), comment rate
//     (comments/views×100), and hours since publication.
//
// None of these stages fail. Missing or malformed inputs degrade to zero
// values so one bad item cannot abort a batch. Rates are 0 when views is 0,
// and hours are 0 for an unparseable or future publish time.
//
// # Presentation Helpers
//
// [Regions] and [RegionName] map region codes to names; [FormatCount]
// renders compact counts ("1.2M").
package videos
