package engine

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AviKKi/svg-motion/internal/config"
	"github.com/AviKKi/svg-motion/internal/timeline"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100" viewBox="0 0 100 100">
  <circle id="dot" cx="50" cy="50" r="10" fill="#cc3344"/>
</svg>`

func fadeInTimeline() timeline.Timeline {
	return timeline.Timeline{
		Entries: []timeline.Entry{
			{
				Targets:  "svg",
				Position: 0,
				Params: map[string]timeline.Sequence{
					"opacity": {
						{To: timeline.Number(0), Duration: timeline.Dur(0)},
						{To: timeline.Number(1), Duration: timeline.Dur(500)},
					},
				},
			},
		},
	}
}

func TestExportRejectsInvalidOptions(t *testing.T) {
	e := New(nil)
	opts := config.Options{Width: 0, Height: 720, FPS: 30, DurationMs: 1000, Format: "mp4"}

	var phases []Phase
	_, err := e.Export(context.Background(), testSVG, fadeInTimeline(), opts, func(p Progress) {
		phases = append(phases, p.Phase)
	})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	var vErr *config.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *config.ValidationError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "width") {
		t.Errorf("error should cite width: %s", err.Error())
	}

	// Validation failures must happen before any work starts.
	for _, phase := range phases {
		if phase == PhaseRendering || phase == PhaseEncoding {
			t.Errorf("no %s phase may be reported for rejected options", phase)
		}
	}

	// The gate is released; the exporter stays usable.
	if e.exporting.Load() {
		t.Error("busy flag leaked after a validation failure")
	}
}

func TestExportBusy(t *testing.T) {
	e := New(nil)
	e.exporting.Store(true)

	_, err := e.Export(context.Background(), testSVG, fadeInTimeline(), config.Defaults(), nil)
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	e.exporting.Store(false)
}

func TestPreview(t *testing.T) {
	png, err := Preview(testSVG, fadeInTimeline(), 250, 64, 64)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("preview output is not a PNG")
	}
}

func TestPreviewRejectsBadSize(t *testing.T) {
	if _, err := Preview(testSVG, fadeInTimeline(), 0, 0, 64); err == nil {
		t.Error("expected an error for zero width")
	}
	if _, err := Preview(testSVG, fadeInTimeline(), -5, 64, 64); err == nil {
		t.Error("expected an error for a negative timestamp")
	}
}

func TestReporterMonotonic(t *testing.T) {
	var values []float64
	rep := newReporter(func(p Progress) { values = append(values, p.Progress) })

	rep.report(Progress{Phase: PhaseSetup, Progress: 0.2})
	rep.report(Progress{Phase: PhaseRendering, Progress: 0.5})
	// A retried attempt would otherwise report backwards.
	rep.report(Progress{Phase: PhaseRendering, Progress: 0.3})
	rep.report(Progress{Phase: PhaseEncoding, Progress: 0.8})

	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			t.Fatalf("progress went backwards: %v", values)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("clip.mp4", "webm"); got != "clip.webm" {
		t.Errorf("extension should follow the negotiated format, got %q", got)
	}
	if got := outputPath("clip.mp4", "mp4"); got != "clip.mp4" {
		t.Errorf("unchanged format should keep the path, got %q", got)
	}
	if got := outputPath("", "webm"); !strings.HasSuffix(got, ".webm") {
		t.Errorf("generated path should carry the format extension, got %q", got)
	}
}
