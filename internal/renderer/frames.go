// Package renderer turns a timeline into frames: first as serialized
// markup snapshots (the sequencer), then as raster pixel buffers (the
// compositor). Frames are produced strictly in timestamp order; the
// downstream encoder depends on monotonic presentation times.
package renderer

import (
	"math"

	"github.com/AviKKi/svg-motion/internal/animator"
	"github.com/AviKKi/svg-motion/internal/scene"
	"github.com/AviKKi/svg-motion/internal/timeline"
)

// Frame is one serialized markup snapshot. Immutable once produced.
type Frame struct {
	Markup      string
	TimestampMs float64
	Index       int
}

// FrameCount returns the number of sample points for a duration at a
// frame rate. Both endpoints are sampled: frame 0 at t=0 and a final
// frame at t=durationMs, so 1000ms at 30fps yields 31 frames. The
// count is computed as durationMs*fps/1000 rather than dividing by the
// frame interval; dividing twice lets rounding in the interval push an
// extra sample past the requested duration (1000ms at 61fps must be 62
// frames, not 63).
func FrameCount(durationMs float64, fps int) int {
	return int(math.Ceil(durationMs*float64(fps)/1000.0)) + 1
}

// SeekScene computes the full animation state at one timestamp. The
// scene is reset to its baseline first; seeks never build on the
// previous timestamp's state. Entries whose targets do not resolve
// are skipped silently.
func SeekScene(sc *scene.Scene, tl timeline.Timeline, timestampMs float64) {
	sc.Reset()
	for _, entry := range tl.Entries {
		if timestampMs < entry.Position {
			continue
		}
		nodes := sc.ResolveTargets(entry.Targets)
		if len(nodes) == 0 {
			continue
		}
		for _, name := range entry.PropertyNames() {
			v, active := animator.Evaluate(entry.Params[name], timestampMs-entry.Position)
			if !active {
				continue
			}
			sc.ApplyProperty(nodes, name, v)
		}
	}
}

// FrameIterator is a finite, restartable, pull-based frame stream.
// Each NewFrameIterator call produces an independent pass; two passes
// over the same inputs yield byte-identical frames.
type FrameIterator struct {
	sc       *scene.Scene
	tl       timeline.Timeline
	interval float64
	count    int
	next     int
	cur      Frame
	err      error
}

// NewFrameIterator builds an iterator over [0, durationMs] at fps.
// A non-positive durationMs falls back to the timeline's own total
// duration.
func NewFrameIterator(sc *scene.Scene, tl timeline.Timeline, fps int, durationMs float64) *FrameIterator {
	if durationMs <= 0 {
		durationMs = tl.TotalDuration()
	}
	return &FrameIterator{
		sc:       sc,
		tl:       tl,
		interval: 1000.0 / float64(fps),
		count:    FrameCount(durationMs, fps),
	}
}

// Count returns the total number of frames this iterator will yield.
func (it *FrameIterator) Count() int { return it.count }

// Next advances to the next frame. It returns false when the stream
// is exhausted or errored; check Err afterwards.
func (it *FrameIterator) Next() bool {
	if it.err != nil || it.next >= it.count {
		return false
	}
	ts := float64(it.next) * it.interval
	SeekScene(it.sc, it.tl, ts)
	markup, err := it.sc.Serialize()
	if err != nil {
		it.err = err
		return false
	}
	it.cur = Frame{Markup: markup, TimestampMs: ts, Index: it.next}
	it.next++
	return true
}

// Frame returns the frame produced by the last successful Next.
func (it *FrameIterator) Frame() Frame { return it.cur }

// Err returns the first error hit while producing frames.
func (it *FrameIterator) Err() error { return it.err }
