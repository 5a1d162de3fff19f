// internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastadiff/internal/engine"
	"fastadiff/internal/seqset"
)

func sets() (*seqset.Set, *seqset.Set) {
	old := seqset.New("old.fa")
	old.Put("chr1", ">chr1", "ACGTACGTAC")
	old.Put("chr2", ">chr2", "XXACGTYYGG")
	old.Put("chr3", ">chr3", "ACGTTAGGCC")
	old.Put("chr4", ">chr4", "AAAACCCCGGGGTTTT")
	old.Put("lost", ">lost", "CACACACA")

	nw := seqset.New("new.fa")
	nw.Put("n1", ">n1", "ACGTACGTAC")
	nw.Put("n2", ">n2", "ACGTYY")
	nw.Put("n3", ">n3", "ACGTNNGGCC")
	nw.Put("n4a", ">n4a", "AAAANCCC")
	nw.Put("n4b", ">n4b", "GGGGNTTT")
	nw.Put("novel", ">novel", "TGTGTGTGTG")
	return old, nw
}

func TestRun_AllStages(t *testing.T) {
	old, nw := sets()
	var reports []StageReport
	res, err := Run(context.Background(), Config{Threads: 2}, old, nw, nil,
		func(_ context.Context, r StageReport) error {
			reports = append(reports, r)
			return nil
		})
	require.NoError(t, err)

	require.Len(t, reports, 4)
	for i, r := range reports {
		assert.Equal(t, i+1, r.Number)
	}
	assert.Equal(t, 1, reports[0].NewlyMatched)
	assert.Equal(t, 1, reports[1].NewlyMatched)
	assert.Equal(t, 1, reports[2].NewlyMatched)
	assert.Equal(t, 1, reports[3].NewlyMatched)
	assert.Equal(t, 4, res.Matched)

	assert.Equal(t, engine.Segment{OldID: "chr1", OldStart: 0, OldEnd: 10, NewID: "n1", NewStart: 0, NewEnd: 10}, res.Segments[0])
	assert.Equal(t, engine.Segment{OldID: "chr2", OldStart: 2, OldEnd: 8, NewID: "n2", NewStart: 0, NewEnd: 6}, res.Segments[1])
	for _, s := range res.Segments {
		assert.True(t, s.Valid(), s.String())
	}

	require.Equal(t, 1, res.Old.Len())
	assert.Equal(t, "lost", res.Old.Records()[0].ID)
	require.Equal(t, 1, res.New.Len())
	assert.Equal(t, "novel", res.New.Records()[0].ID)
}

func TestRun_UnmatchedNeverAligned(t *testing.T) {
	old, nw := sets()
	res, err := Run(context.Background(), Config{Threads: 1}, old, nw, nil, nil)
	require.NoError(t, err)

	aligned := make(map[string]bool)
	for _, s := range res.Segments {
		aligned[s.NewID] = true
	}
	for _, r := range res.New.Records() {
		assert.False(t, aligned[r.ID], "%s is both aligned and unmatched", r.ID)
	}
}

func TestRun_CancelledBeforeFirstStage(t *testing.T) {
	old, nw := sets()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, Config{}, old, nw, nil, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Segments)
	assert.Equal(t, 5, old.Len())
}

func TestRun_CancelBetweenStages(t *testing.T) {
	old, nw := sets()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	res, err := Run(ctx, Config{}, old, nw, nil, func(_ context.Context, r StageReport) error {
		if r.Number == engine.StageExact {
			cancel()
		}
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, res.Segments, 1, "only the exact stage ran")
}

func TestRun_HookErrorAborts(t *testing.T) {
	old, nw := sets()
	boom := errors.New("disk full")
	calls := 0
	_, err := Run(context.Background(), Config{}, old, nw, nil, func(context.Context, StageReport) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "stage 1")
	assert.Equal(t, 1, calls)
}
