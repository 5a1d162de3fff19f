// internal/liftover/liftover.go

// Package liftover is the consumer side of a coordinate mapping: it indexes
// mapping rows by old sequence id and translates old-axis intervals.
package liftover

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"fastadiff/internal/engine"
	"fastadiff/internal/jsonlutil"
	"fastadiff/pkg/api"
)

// ErrBadRow is wrapped by Load for rows that are not a valid segment.
var ErrBadRow = errors.New("bad mapping row")

// Index holds mapping rows grouped by old id, each group sorted by old start.
type Index struct {
	byOld map[string][]engine.Segment
	rows  int
}

// NewIndex builds an Index over segs. The slice is not retained.
func NewIndex(segs []engine.Segment) *Index {
	ix := &Index{byOld: make(map[string][]engine.Segment), rows: len(segs)}
	for _, s := range segs {
		ix.byOld[s.OldID] = append(ix.byOld[s.OldID], s)
	}
	for _, g := range ix.byOld {
		sort.SliceStable(g, func(i, j int) bool { return g[i].OldStart < g[j].OldStart })
	}
	return ix
}

// Len is the number of rows indexed.
func (ix *Index) Len() int { return ix.rows }

// Lookup maps the half-open interval [start,end) on oldID. It succeeds only
// when the interval lies entirely inside exactly one row; the result is that
// row's linear translation onto the new sequence.
func (ix *Index) Lookup(oldID string, start, end int) (engine.Segment, bool) {
	if start < 0 || end <= start {
		return engine.Segment{}, false
	}
	var hit engine.Segment
	n := 0
	for _, s := range ix.byOld[oldID] {
		if s.OldStart > start {
			break
		}
		if end <= s.OldEnd {
			hit = s
			n++
		}
	}
	if n != 1 {
		return engine.Segment{}, false
	}
	off := start - hit.OldStart
	return engine.Segment{
		OldID: oldID, OldStart: start, OldEnd: end,
		NewID: hit.NewID, NewStart: hit.NewStart + off, NewEnd: hit.NewStart + off + (end - start),
	}, true
}

// Overlapping counts rows that share old-axis positions with another row of
// the same old id. Consumers cannot map such positions.
func (ix *Index) Overlapping() int {
	total := 0
	for _, g := range ix.byOld {
		hit := make([]bool, len(g))
		for i := range g {
			for j := i + 1; j < len(g) && g[j].OldStart < g[i].OldEnd; j++ {
				hit[i], hit[j] = true, true
			}
		}
		for _, h := range hit {
			if h {
				total++
			}
		}
	}
	return total
}

// Load reads mapping rows written in format ("tsv" or "jsonl").
func Load(r io.Reader, format string) ([]engine.Segment, error) {
	switch format {
	case "tsv":
		return loadTSV(r)
	case "jsonl":
		var out []engine.Segment
		err := jsonlutil.Decode(r, func(v api.SegmentV1) error {
			s := engine.Segment{
				OldID: v.OldID, OldStart: v.OldStart, OldEnd: v.OldEnd,
				NewID: v.NewID, NewStart: v.NewStart, NewEnd: v.NewEnd,
			}
			if !s.Valid() {
				return fmt.Errorf("%w: %s", ErrBadRow, s)
			}
			out = append(out, s)
			return nil
		})
		return out, err
	default:
		return nil, fmt.Errorf("unknown mapping format %q", format)
	}
}

func loadTSV(r io.Reader) ([]engine.Segment, error) {
	var out []engine.Segment
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		f := strings.Split(text, "\t")
		if len(f) != 6 {
			return nil, fmt.Errorf("line %d: %w: want 6 columns, got %d", line, ErrBadRow, len(f))
		}
		var nums [4]int
		for i, col := range []int{1, 2, 4, 5} {
			v, err := strconv.Atoi(f[col])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: %v", line, ErrBadRow, err)
			}
			nums[i] = v
		}
		s := engine.Segment{
			OldID: f[0], OldStart: nums[0], OldEnd: nums[1],
			NewID: f[3], NewStart: nums[2], NewEnd: nums[3],
		}
		if !s.Valid() {
			return nil, fmt.Errorf("line %d: %w: %s", line, ErrBadRow, s)
		}
		out = append(out, s)
	}
	return out, sc.Err()
}
