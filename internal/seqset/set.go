// internal/seqset/set.go

// Package seqset holds FASTA records indexed by their sequence content.
//
// Content is hashed to a 64-bit key; records sharing a key are told apart by
// an exact comparison. A roaring bitmap tracks which records are still live,
// so iteration follows file order and removal is O(1).
package seqset

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/zeebo/wyhash"
)

const hashSeed = 0x5eed

// Record is one sequence of an assembly.
type Record struct {
	ID     string
	Header string
	Seq    string
	Index  uint32 // position in the owning Set
}

// Set maps sequence content to at most one live Record.
type Set struct {
	name    string
	records []Record
	buckets map[uint64][]uint32
	live    *roaring.Bitmap
}

// New returns an empty set labelled name (usually the source file).
func New(name string) *Set {
	return &Set{
		name:    name,
		buckets: make(map[uint64][]uint32),
		live:    roaring.New(),
	}
}

// Name returns the label given to New.
func (s *Set) Name() string { return s.name }

// Len returns the number of live records.
func (s *Set) Len() int { return int(s.live.GetCardinality()) }

// Put indexes a record under its content. If a live record with identical
// content exists it is replaced and returned with replaced=true.
func (s *Set) Put(id, header, seq string) (old Record, replaced bool) {
	h := wyhash.HashString(seq, hashSeed)
	bucket := s.buckets[h]
	for i, idx := range bucket {
		if s.records[idx].Seq == seq {
			old, replaced = s.records[idx], true
			s.live.Remove(idx)
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	idx := uint32(len(s.records))
	s.records = append(s.records, Record{ID: id, Header: header, Seq: seq, Index: idx})
	s.buckets[h] = append(bucket, idx)
	s.live.Add(idx)
	return old, replaced
}

// Lookup returns the live record whose content equals seq.
func (s *Set) Lookup(seq string) (Record, bool) {
	for _, idx := range s.buckets[wyhash.HashString(seq, hashSeed)] {
		if s.live.Contains(idx) && s.records[idx].Seq == seq {
			return s.records[idx], true
		}
	}
	return Record{}, false
}

// Get returns the record at idx, live or not.
func (s *Set) Get(idx uint32) Record { return s.records[idx] }

// Live reports whether idx has not been removed.
func (s *Set) Live(idx uint32) bool { return s.live.Contains(idx) }

// Remove drops idx from the live records. Removing twice is a no-op.
func (s *Set) Remove(idx uint32) {
	if !s.live.Contains(idx) {
		return
	}
	s.live.Remove(idx)
	h := wyhash.HashString(s.records[idx].Seq, hashSeed)
	bucket := s.buckets[h]
	for i, j := range bucket {
		if j == idx {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(s.buckets, h)
	} else {
		s.buckets[h] = bucket
	}
}

// Records returns the live records in insertion order.
// The slice is a snapshot; removing records afterwards does not change it.
func (s *Set) Records() []Record {
	out := make([]Record, 0, s.Len())
	it := s.live.Iterator()
	for it.HasNext() {
		out = append(out, s.records[it.Next()])
	}
	return out
}

// Bases returns the total length of the live records.
func (s *Set) Bases() int64 {
	var n int64
	it := s.live.Iterator()
	for it.HasNext() {
		n += int64(len(s.records[it.Next()].Seq))
	}
	return n
}
