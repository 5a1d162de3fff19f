// internal/engine/segment.go
package engine

import "fmt"

// Segment maps [OldStart,OldEnd) of an old sequence onto [NewStart,NewEnd)
// of a new sequence. Both ranges are 0-based, half-open and equally long.
type Segment struct {
	OldID    string `json:"old_id"`
	OldStart int    `json:"old_start"`
	OldEnd   int    `json:"old_end"`
	NewID    string `json:"new_id"`
	NewStart int    `json:"new_start"`
	NewEnd   int    `json:"new_end"`
}

// Len is the number of bases covered.
func (s Segment) Len() int { return s.OldEnd - s.OldStart }

// Valid reports whether both ranges are well-formed and length-preserving.
func (s Segment) Valid() bool {
	return s.OldStart >= 0 && s.NewStart >= 0 &&
		s.OldEnd >= s.OldStart &&
		s.OldEnd-s.OldStart == s.NewEnd-s.NewStart
}

func (s Segment) String() string {
	return fmt.Sprintf("%s:%d-%d→%s:%d-%d", s.OldID, s.OldStart, s.OldEnd, s.NewID, s.NewStart, s.NewEnd)
}
