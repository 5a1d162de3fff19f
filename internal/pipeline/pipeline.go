// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"

	"fastadiff/internal/engine"
	"fastadiff/internal/logging"
	"fastadiff/internal/seqset"
)

// Config controls the stage driver.
type Config struct {
	Threads      int  // search workers per stage; <=0 means all CPUs
	HeaderCheck  bool // warn when a new header does not mention the old id
	WildcardGaps bool // N in new windows matches any old base during split merging
	Progress     engine.Progress
}

// StageReport describes the state right after one stage committed.
type StageReport struct {
	Number       int
	Name         string
	Old, New     *seqset.Set // still unmatched
	Matched      int         // distinct old ids aligned so far
	NewlyMatched int         // distinct old ids first aligned by this stage
	Segments     []engine.Segment
}

// Hook observes each finished stage. A non-nil error aborts the run.
type Hook func(ctx context.Context, r StageReport) error

// Result is the outcome of a full run.
type Result struct {
	Segments []engine.Segment // stage order
	Old, New *seqset.Set      // whatever stayed unmatched
	Matched  int
}

type stage struct {
	number int
	name   string
	run    func(ctx context.Context, e *engine.Env) []engine.Segment
}

func stages() []stage {
	var pending *engine.Pending
	return []stage{
		{engine.StageExact, "exact match", engine.MatchExact},
		{engine.StageSubstring, "substring match", engine.MatchSubstring},
		{engine.StageSplit, "split match", func(ctx context.Context, e *engine.Env) []engine.Segment {
			var segs []engine.Segment
			segs, pending = engine.MatchSplit(ctx, e)
			return segs
		}},
		{engine.StageResolve, "overlap resolution", func(ctx context.Context, e *engine.Env) []engine.Segment {
			if pending == nil {
				return nil
			}
			return engine.ResolveOverlaps(ctx, e, pending)
		}},
	}
}

// Run matches old against new. Both sets are consumed in place. The context is
// only consulted between stages; on cancellation the partial Result is
// returned together with ctx.Err().
func Run(ctx context.Context, cfg Config, old, nw *seqset.Set, log *logging.Logger, after Hook) (Result, error) {
	if log == nil {
		log = logging.NoopLogger()
	}
	e := &engine.Env{
		Old: old,
		New: nw,
		Cfg: engine.Config{
			Threads:      cfg.Threads,
			HeaderCheck:  cfg.HeaderCheck,
			WildcardGaps: cfg.WildcardGaps,
		},
		Log:      log,
		Progress: cfg.Progress,
	}

	res := Result{Old: old, New: nw}
	seen := make(map[string]struct{})
	for _, st := range stages() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		segs := st.run(ctx, e)
		res.Segments = append(res.Segments, segs...)

		before := len(seen)
		for _, s := range segs {
			seen[s.OldID] = struct{}{}
		}
		res.Matched = len(seen)

		rep := StageReport{
			Number:       st.number,
			Name:         st.name,
			Old:          old,
			New:          nw,
			Matched:      res.Matched,
			NewlyMatched: res.Matched - before,
			Segments:     segs,
		}
		log.LogStage(ctx, rep.Number, rep.Name, rep.Matched, rep.NewlyMatched, old.Len(), nw.Len())
		if after != nil {
			if err := after(ctx, rep); err != nil {
				return res, fmt.Errorf("stage %d: %w", st.number, err)
			}
		}
	}
	return res, nil
}
