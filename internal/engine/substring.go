// internal/engine/substring.go
package engine

import (
	"context"
	"strings"

	"fastadiff/internal/seqset"
)

// containment is where one new sequence occurs inside one old sequence.
type containment struct {
	old seqset.Record
	pos int
}

// MatchSubstring commits new sequences found verbatim inside exactly one old
// sequence, provided no other new sequence claims that same old sequence.
//
// A new sequence contained in several old sequences is logged as ambiguous
// and left alone. An old sequence claimed by several new sequences defers all
// of them; the split stage and the overlap resolver handle that case.
func MatchSubstring(ctx context.Context, e *Env) []Segment {
	olds := e.Old.Records()
	news := e.New.Records()

	found := make([][]containment, len(news))
	e.forEach("substring", len(news), func(i int) {
		nw := news[i].Seq
		for _, old := range olds {
			if len(old.Seq) < len(nw) {
				continue
			}
			if pos := strings.Index(old.Seq, nw); pos >= 0 {
				found[i] = append(found[i], containment{old: old, pos: pos})
			}
		}
	})

	type claim struct {
		nw  seqset.Record
		seg Segment
	}
	var order []uint32
	claims := make(map[uint32][]claim)

	for i, nw := range news {
		switch len(found[i]) {
		case 0:
			continue
		case 1:
		default:
			olds := make([]seqset.Record, len(found[i]))
			for j, c := range found[i] {
				olds[j] = c.old
			}
			e.log().LogAmbiguous(ctx, StageSubstring, nw.ID, idsOf(olds))
			continue
		}
		c := found[i][0]
		e.checkHeader(ctx, StageSubstring, c.old, nw)
		if _, seen := claims[c.old.Index]; !seen {
			order = append(order, c.old.Index)
		}
		claims[c.old.Index] = append(claims[c.old.Index], claim{
			nw: nw,
			seg: Segment{
				OldID: c.old.ID, OldStart: c.pos, OldEnd: c.pos + len(nw.Seq),
				NewID: nw.ID, NewStart: 0, NewEnd: len(nw.Seq),
			},
		})
	}

	var out []Segment
	for _, oldIdx := range order {
		cs := claims[oldIdx]
		if len(cs) != 1 {
			continue
		}
		out = append(out, cs[0].seg)
		e.Old.Remove(oldIdx)
		e.New.Remove(cs[0].nw.Index)
	}
	return out
}
