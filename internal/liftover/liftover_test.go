package liftover

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastadiff/internal/engine"
)

func seg(old string, os, oe int, nw string, ns, ne int) engine.Segment {
	return engine.Segment{OldID: old, OldStart: os, OldEnd: oe, NewID: nw, NewStart: ns, NewEnd: ne}
}

func TestLookup(t *testing.T) {
	ix := NewIndex([]engine.Segment{
		seg("chr1", 6, 10, "n1", 6, 10),
		seg("chr1", 0, 4, "n1", 0, 4),
		seg("chr2", 2, 6, "n2", 0, 4),
	})
	require.Equal(t, 3, ix.Len())

	got, ok := ix.Lookup("chr2", 3, 5)
	require.True(t, ok)
	assert.Equal(t, seg("chr2", 3, 5, "n2", 1, 3), got)

	got, ok = ix.Lookup("chr1", 7, 10)
	require.True(t, ok)
	assert.Equal(t, seg("chr1", 7, 10, "n1", 7, 10), got)

	_, ok = ix.Lookup("chr1", 3, 7)
	assert.False(t, ok, "straddles a gap")
	_, ok = ix.Lookup("chr3", 0, 1)
	assert.False(t, ok, "unknown id")
	_, ok = ix.Lookup("chr1", 2, 2)
	assert.False(t, ok, "empty interval")
}

func TestLookup_OverlapIsUnmapped(t *testing.T) {
	ix := NewIndex([]engine.Segment{
		seg("chr1", 0, 50, "a", 0, 50),
		seg("chr1", 40, 90, "b", 0, 50),
	})
	_, ok := ix.Lookup("chr1", 42, 45)
	assert.False(t, ok)
	_, ok = ix.Lookup("chr1", 10, 20)
	assert.True(t, ok)
	assert.Equal(t, 2, ix.Overlapping())
}

func TestOverlapping_Disjoint(t *testing.T) {
	ix := NewIndex([]engine.Segment{
		seg("chr1", 10, 50, "a", 0, 40),
		seg("chr1", 50, 90, "b", 0, 40),
		seg("chr2", 10, 50, "c", 0, 40),
	})
	assert.Zero(t, ix.Overlapping())
}

func TestLoad(t *testing.T) {
	tsv := "chr1\t0\t10\tn1\t0\t10\r\n\nchr2\t2\t6\tn2\t0\t4\n"
	got, err := Load(strings.NewReader(tsv), "tsv")
	require.NoError(t, err)
	assert.Equal(t, []engine.Segment{seg("chr1", 0, 10, "n1", 0, 10), seg("chr2", 2, 6, "n2", 0, 4)}, got)

	jl := `{"old_id":"chr2","old_start":2,"old_end":6,"new_id":"n2","new_start":0,"new_end":4}` + "\n"
	got, err = Load(strings.NewReader(jl), "jsonl")
	require.NoError(t, err)
	assert.Equal(t, []engine.Segment{seg("chr2", 2, 6, "n2", 0, 4)}, got)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(strings.NewReader("chr1\t0\t10\n"), "tsv")
	assert.ErrorIs(t, err, ErrBadRow)
	_, err = Load(strings.NewReader("chr1\t0\t10\tn1\t0\t9\n"), "tsv")
	assert.ErrorIs(t, err, ErrBadRow)
	_, err = Load(strings.NewReader(`{"old_id":"a","old_start":0,"old_end":3,"new_id":"b","new_start":0,"new_end":1}`), "jsonl")
	assert.ErrorIs(t, err, ErrBadRow)
	_, err = Load(strings.NewReader(""), "bed")
	assert.Error(t, err)
}
