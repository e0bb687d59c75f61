package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/tubetrend/pkg/videos"
)

// ReadJSON decodes a records array previously written by [WriteJSON].
//
// Records are returned as stored; derived fields are not recomputed. An
// empty array yields an empty, non-nil slice. ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]videos.Record, error) {
	var recs []videos.Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	for i, rec := range recs {
		if rec.VideoID == "" {
			return nil, fmt.Errorf("record %d: missing video_id", i)
		}
	}
	if recs == nil {
		recs = []videos.Record{}
	}
	return recs, nil
}

// ImportJSON reads a records file at path.
func ImportJSON(path string) ([]videos.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
