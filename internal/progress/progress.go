// Package progress draws a counter bar for finished operations.
package progress

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Bar counts finished operations. The zero value and a disabled Bar are
// no-ops, so callers never need to check.
type Bar struct {
	pbs *mpb.Progress
	bar *mpb.Bar
}

// New starts a bar of total steps on w. It returns a no-op Bar when
// enabled is false or total is zero.
func New(w io.Writer, label string, total int, enabled bool) *Bar {
	if !enabled || total <= 0 {
		return &Bar{}
	}
	pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(w))
	bar := pbs.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{W: len(label), C: decor.DindentRight}),
			decor.Name("", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.AverageETA(decor.ET_STYLE_GO),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	return &Bar{pbs: pbs, bar: bar}
}

// Incr records one finished step.
func (b *Bar) Incr() {
	if b == nil || b.bar == nil {
		return
	}
	b.bar.Increment()
}

// Wait flushes the bar. A bar stopped short of its total (cancellation) is
// aborted so Wait does not block.
func (b *Bar) Wait() {
	if b == nil || b.pbs == nil {
		return
	}
	if !b.bar.Completed() {
		b.bar.Abort(false)
	}
	b.pbs.Wait()
}
