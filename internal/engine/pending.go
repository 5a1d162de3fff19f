// internal/engine/pending.go
package engine

import "fastadiff/internal/seqset"

// Claim is one new sequence's candidate mapping onto an old sequence.
type Claim struct {
	New    seqset.Record
	Blocks []Segment
}

// PendingGroup collects every new sequence whose split segments all landed,
// in order, in the same old sequence.
type PendingGroup struct {
	Old    seqset.Record
	Claims []Claim
}

// Pending is the registry of PendingGroups keyed by old sequence. Old records
// are unique by content within their set, so the record index doubles as the
// content key. Iteration follows first-claim order.
type Pending struct {
	order  []uint32
	groups map[uint32]*PendingGroup
}

// NewPending returns an empty registry.
func NewPending() *Pending {
	return &Pending{groups: make(map[uint32]*PendingGroup)}
}

// Add registers a claim of nw onto old.
func (p *Pending) Add(old, nw seqset.Record, blocks []Segment) {
	g, ok := p.groups[old.Index]
	if !ok {
		g = &PendingGroup{Old: old}
		p.groups[old.Index] = g
		p.order = append(p.order, old.Index)
	}
	g.Claims = append(g.Claims, Claim{New: nw, Blocks: blocks})
}

// Groups returns the live groups in first-claim order.
func (p *Pending) Groups() []*PendingGroup {
	out := make([]*PendingGroup, 0, len(p.groups))
	for _, idx := range p.order {
		if g, ok := p.groups[idx]; ok {
			out = append(out, g)
		}
	}
	return out
}

// Len is the number of live groups.
func (p *Pending) Len() int { return len(p.groups) }

// Drop removes the group keyed by old.
func (p *Pending) Drop(old seqset.Record) {
	delete(p.groups, old.Index)
}
