// internal/engine/engine.go
package engine

import (
	"context"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"fastadiff/internal/logging"
	"fastadiff/internal/seqset"
)

// Stage numbers as reported in logs and the unmatched report.
const (
	StageExact     = 1
	StageSubstring = 2
	StageSplit     = 3
	StageResolve   = 4
)

// Config holds the knobs shared by all stages.
type Config struct {
	Threads      int  // candidate-search workers; <=0 means all CPUs
	HeaderCheck  bool // warn when the new header lacks the old id
	WildcardGaps bool // N in the new window matches any old base when merging split blocks
}

// Progress receives per-item ticks from the search loops. Nil is allowed.
type Progress interface {
	Start(name string, total int) Bar
}

// Bar is one running progress indicator.
type Bar interface {
	Increment()
	Done()
}

// Env is the mutable state a stage works on. Old and New shrink as matches commit.
type Env struct {
	Old, New *seqset.Set
	Cfg      Config
	Log      *logging.Logger
	Progress Progress
}

func (e *Env) threads() int {
	if e.Cfg.Threads > 0 {
		return e.Cfg.Threads
	}
	return runtime.NumCPU()
}

func (e *Env) log() *logging.Logger {
	if e.Log == nil {
		e.Log = logging.NoopLogger()
	}
	return e.Log
}

// forEach calls fn(i) for i in [0,n) on up to threads goroutines.
// fn must only write to state owned by index i.
func (e *Env) forEach(name string, n int, fn func(i int)) {
	var bar Bar = noopBar{}
	if e.Progress != nil {
		bar = e.Progress.Start(name, n)
	}
	defer bar.Done()

	if e.threads() == 1 || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
			bar.Increment()
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(e.threads())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			bar.Increment()
			return nil
		})
	}
	_ = g.Wait()
}

type noopBar struct{}

func (noopBar) Increment() {}
func (noopBar) Done()      {}

// headerMentions reports whether the leading token of oldID (up to the first
// '.') appears in the new record's header.
func headerMentions(oldID, newHeader string) bool {
	token, _, _ := strings.Cut(oldID, ".")
	return strings.Contains(newHeader, token)
}

func (e *Env) checkHeader(ctx context.Context, stage int, old, nw seqset.Record) {
	if e.Cfg.HeaderCheck && !headerMentions(old.ID, nw.Header) {
		e.log().LogHeaderCheck(ctx, stage, old.ID, nw.ID)
	}
}

func idsOf(recs []seqset.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
