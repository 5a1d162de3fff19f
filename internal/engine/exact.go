// internal/engine/exact.go
package engine

import (
	"context"

	"fastadiff/internal/seqset"
)

// MatchExact pairs every old sequence whose content also occurs in the new
// set, emitting one full-length segment per pair and removing both records.
// Segments follow the old set's order.
func MatchExact(ctx context.Context, e *Env) []Segment {
	type hit struct{ old, nw seqset.Record }
	var hits []hit
	for _, old := range e.Old.Records() {
		if nw, ok := e.New.Lookup(old.Seq); ok {
			hits = append(hits, hit{old, nw})
		}
	}

	out := make([]Segment, 0, len(hits))
	for _, h := range hits {
		e.checkHeader(ctx, StageExact, h.old, h.nw)
		n := len(h.old.Seq)
		out = append(out, Segment{
			OldID: h.old.ID, OldStart: 0, OldEnd: n,
			NewID: h.nw.ID, NewStart: 0, NewEnd: n,
		})
		e.Old.Remove(h.old.Index)
		e.New.Remove(h.nw.Index)
	}
	return out
}
