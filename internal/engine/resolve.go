// internal/engine/resolve.go
package engine

import "context"

// interval is a closed range on the old coordinate axis.
type interval struct{ lo, hi int }

func (a interval) overlaps(b interval) bool { return a.lo <= b.hi && b.lo <= a.hi }

// union spans every block of one claim on the old axis.
func union(blocks []Segment) interval {
	iv := interval{lo: blocks[0].OldStart, hi: blocks[0].OldEnd}
	for _, b := range blocks[1:] {
		iv.lo = min(iv.lo, b.OldStart)
		iv.hi = max(iv.hi, b.OldEnd)
	}
	return iv
}

// ResolveOverlaps drains the groups MatchSplit left with several claimants.
//
// Within one group every claim is reduced to the union interval of its blocks
// on the old sequence. Any two claims whose intervals overlap (closed-interval
// test) are both discarded; there is no tie-break. The remaining claims are
// committed and their new records removed; the old record is removed if at
// least one claim committed. Conflict state is scoped to a single group.
func ResolveOverlaps(ctx context.Context, e *Env, p *Pending) []Segment {
	var out []Segment
	for _, g := range p.Groups() {
		claims := make([]Claim, 0, len(g.Claims))
		for _, c := range g.Claims {
			if len(c.Blocks) > 0 {
				claims = append(claims, c)
			}
		}

		ivs := make([]interval, len(claims))
		for i, c := range claims {
			ivs[i] = union(c.Blocks)
		}
		conflicted := make([]bool, len(claims))
		for i := range claims {
			for j := i + 1; j < len(claims); j++ {
				if ivs[i].overlaps(ivs[j]) {
					conflicted[i], conflicted[j] = true, true
					e.log().LogConflict(ctx, g.Old.ID, claims[i].New.ID, claims[j].New.ID)
				}
			}
		}

		committed := false
		for i, c := range claims {
			if conflicted[i] {
				continue
			}
			out = append(out, c.Blocks...)
			e.New.Remove(c.New.Index)
			committed = true
		}
		if committed {
			e.Old.Remove(g.Old.Index)
		}
		p.Drop(g.Old)
	}
	return out
}
