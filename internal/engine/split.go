// internal/engine/split.go
package engine

import (
	"context"
	"strings"

	"fastadiff/internal/seqset"
)

// Unknown is the placeholder base that splits a new sequence into segments.
const Unknown = 'N'

// span is a half-open range of a new sequence free of unknown bases.
type span struct{ start, end int }

// splitOnUnknown returns the maximal runs of seq that contain no unknown base.
func splitOnUnknown(seq string) []span {
	var out []span
	start := -1
	for i := 0; i < len(seq); i++ {
		if seq[i] == Unknown {
			if start >= 0 {
				out = append(out, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, span{start, len(seq)})
	}
	return out
}

// locate finds every span of nw in old, left to right, each search starting
// where the previous match ended. It returns one raw segment per span, or
// false if any span cannot be placed.
func locate(old, nw seqset.Record, spans []span) ([]Segment, bool) {
	raw := make([]Segment, 0, len(spans))
	from := 0
	for _, sp := range spans {
		k := strings.Index(old.Seq[from:], nw.Seq[sp.start:sp.end])
		if k < 0 {
			return nil, false
		}
		pos := from + k
		n := sp.end - sp.start
		raw = append(raw, Segment{
			OldID: old.ID, OldStart: pos, OldEnd: pos + n,
			NewID: nw.ID, NewStart: sp.start, NewEnd: sp.end,
		})
		from = pos + n
	}
	return raw, true
}

// sameWindow compares an old and a new window base for base. With wildcard
// set, an unknown base in the new window matches anything.
func sameWindow(old, nw string, wildcard bool) bool {
	if len(old) != len(nw) {
		return false
	}
	if !wildcard {
		return old == nw
	}
	for i := 0; i < len(old); i++ {
		if old[i] != nw[i] && nw[i] != Unknown {
			return false
		}
	}
	return true
}

// extend pushes the trailing edge of b forward while old and new agree,
// stopping at the first mismatch or at the end of either sequence. The
// extension may run into the window of the next raw segment.
func extend(b Segment, old, nw string) Segment {
	for b.OldEnd < len(old) && b.NewEnd < len(nw) && old[b.OldEnd] == nw[b.NewEnd] {
		b.OldEnd++
		b.NewEnd++
	}
	return b
}

// mergeBlocks folds consecutive raw segment matches into aligned blocks. A
// segment joins the running block when the whole window from the block start
// to the segment end is identical in old and new (see sameWindow for the
// wildcard rule). Otherwise the running block is closed after a greedy
// trailing extension.
func mergeBlocks(old, nw string, raw []Segment, wildcard bool) []Segment {
	if len(raw) == 0 {
		return nil
	}
	var out []Segment
	cur := raw[0]
	for _, m := range raw[1:] {
		if sameWindow(old[cur.OldStart:m.OldEnd], nw[cur.NewStart:m.NewEnd], wildcard) {
			cur.OldEnd, cur.NewEnd = m.OldEnd, m.NewEnd
			continue
		}
		out = append(out, extend(cur, old, nw))
		cur = m
	}
	return append(out, extend(cur, old, nw))
}

// MatchSplit handles new sequences in which runs of unknown bases replaced
// part of an old sequence. Each new sequence is split on those runs; an old
// sequence that contains every piece in order is a full-match candidate.
//
// New sequences with several candidates are logged as ambiguous and skipped.
// A unique candidate is registered in the returned Pending registry. Groups
// claimed by exactly one new sequence are committed here and dropped from the
// registry; the rest are left for ResolveOverlaps.
func MatchSplit(ctx context.Context, e *Env) ([]Segment, *Pending) {
	olds := e.Old.Records()
	news := e.New.Records()

	type result struct {
		cands  []seqset.Record
		blocks []Segment
	}
	res := make([]result, len(news))

	e.forEach("split", len(news), func(i int) {
		nw := news[i]
		spans := splitOnUnknown(nw.Seq)
		if len(spans) == 0 {
			return
		}
		var first []Segment
		for _, old := range olds {
			raw, ok := locate(old, nw, spans)
			if !ok {
				continue
			}
			if len(res[i].cands) == 0 {
				first = raw
			}
			res[i].cands = append(res[i].cands, old)
		}
		if len(res[i].cands) == 1 {
			res[i].blocks = mergeBlocks(res[i].cands[0].Seq, nw.Seq, first, e.Cfg.WildcardGaps)
		}
	})

	pending := NewPending()
	for i, nw := range news {
		switch len(res[i].cands) {
		case 0:
		case 1:
			old := res[i].cands[0]
			e.checkHeader(ctx, StageSplit, old, nw)
			pending.Add(old, nw, res[i].blocks)
		default:
			e.log().LogAmbiguous(ctx, StageSplit, nw.ID, idsOf(res[i].cands))
		}
	}

	var out []Segment
	for _, g := range pending.Groups() {
		if len(g.Claims) != 1 {
			continue
		}
		out = append(out, g.Claims[0].Blocks...)
		e.Old.Remove(g.Old.Index)
		e.New.Remove(g.Claims[0].New.Index)
		pending.Drop(g.Old)
	}
	return out, pending
}
