package engine

// Phase names one stage of the export pipeline.
type Phase string

const (
	PhaseSetup     Phase = "setup"
	PhaseRendering Phase = "rendering"
	PhaseEncoding  Phase = "encoding"
	PhaseComplete  Phase = "complete"
	PhaseError     Phase = "error"
)

// Progress is one progress callback payload. Progress values are
// remapped onto a single monotonic [0,1] scale: setup covers 0–0.2,
// rendering 0.2–0.8, encoding 0.8–1.0.
type Progress struct {
	Phase        Phase
	Progress     float64
	CurrentFrame int
	TotalFrames  int
	Message      string
	Err          error
}

// ProgressFunc receives progress events. Callers must not assume a
// fixed cadence beyond at least one event per frame boundary.
type ProgressFunc func(Progress)

// reporter wraps a ProgressFunc with nil-safety and a monotonic
// guard, so retried encode attempts never report backwards.
type reporter struct {
	fn   ProgressFunc
	high float64
}

func newReporter(fn ProgressFunc) *reporter {
	return &reporter{fn: fn}
}

func (r *reporter) report(p Progress) {
	if r.fn == nil {
		return
	}
	if p.Phase != PhaseError {
		if p.Progress < r.high {
			p.Progress = r.high
		} else {
			r.high = p.Progress
		}
	}
	r.fn(p)
}
