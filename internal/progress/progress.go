// internal/progress/progress.go

// Package progress renders per-stage search progress with mpb.
package progress

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"fastadiff/internal/engine"
)

// Bars is an engine.Progress backed by one mpb container.
type Bars struct {
	p *mpb.Progress
}

// New returns Bars drawing on w.
func New(w io.Writer) *Bars {
	return &Bars{p: mpb.New(mpb.WithWidth(40), mpb.WithOutput(w))}
}

// Start adds a bar counting total items.
func (b *Bars) Start(name string, total int) engine.Bar {
	label := name + ": "
	bar := b.p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{W: len(label), C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.AverageETA(decor.ET_STYLE_GO),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	return stageBar{bar}
}

// Wait blocks until every bar has been rendered for the last time.
func (b *Bars) Wait() { b.p.Wait() }

type stageBar struct{ *mpb.Bar }

func (s stageBar) Increment() { s.Bar.Increment() }

// Done completes the bar even when fewer items were counted than announced.
func (s stageBar) Done() {
	if !s.Bar.Completed() {
		s.Bar.SetTotal(-1, true)
	}
}

var _ engine.Progress = (*Bars)(nil)
