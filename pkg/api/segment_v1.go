// pkg/api/segment_v1.go

// Package api holds the stable wire types written by fastadiff.
package api

// SegmentV1 is one row of the coordinate mapping in JSON/JSONL form.
// Coordinates are 0-based, half-open. Keep fields, names, and types stable;
// add new fields only with ",omitempty".
type SegmentV1 struct {
	OldID    string `json:"old_id"`
	OldStart int    `json:"old_start"`
	OldEnd   int    `json:"old_end"`
	NewID    string `json:"new_id"`
	NewStart int    `json:"new_start"`
	NewEnd   int    `json:"new_end"`
}

