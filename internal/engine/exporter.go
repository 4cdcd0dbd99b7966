// Package engine wires the pipeline together: timeline → evaluator →
// scene → sequencer → compositor → encoder. It owns option
// validation, progress phase mapping, the single-export gate, and
// deterministic resource release.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AviKKi/svg-motion/internal/config"
	"github.com/AviKKi/svg-motion/internal/renderer"
	"github.com/AviKKi/svg-motion/internal/scene"
	"github.com/AviKKi/svg-motion/internal/system"
	"github.com/AviKKi/svg-motion/internal/timeline"
	"github.com/AviKKi/svg-motion/internal/video"
)

// ErrBusy means a second export was requested while one was in
// flight. Nothing is queued; the caller retries after the active
// export settles.
var ErrBusy = errors.New("an export is already in progress")

// Result describes a finished export.
type Result struct {
	Path       string
	SizeBytes  int64
	DurationMs float64
	FrameCount int
	// Format is the container actually produced. It differs from
	// Options.Format when format negotiation had to substitute.
	Format  string
	Options config.Options
}

// Stats is the optional performance report for one export.
type Stats struct {
	Total     time.Duration
	Rendering time.Duration
	Encoding  time.Duration
	Host      system.Snapshot
}

// Exporter runs at most one export at a time and is reusable after
// completion, failure or cancellation.
type Exporter struct {
	log       *slog.Logger
	exporting atomic.Bool
	lastStats Stats
}

func New(log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{log: log}
}

// LastStats returns the performance report of the most recent
// completed export.
func (e *Exporter) LastStats() Stats { return e.lastStats }

// Export renders the timeline over the SVG and encodes it into a
// video container. Options are validated before any work; a failure
// anywhere discards partial output and releases every resource, so
// the exporter can be reused immediately.
func (e *Exporter) Export(ctx context.Context, svgMarkup string, tl timeline.Timeline, opts config.Options, onProgress ProgressFunc) (*Result, error) {
	if !e.exporting.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.exporting.Store(false)

	rep := newReporter(onProgress)
	started := time.Now()

	if opts.DurationMs <= 0 {
		opts.DurationMs = tl.TotalDuration()
	}
	if opts.Quality <= 0 {
		opts.Quality = opts.EffectiveQuality()
	}
	if err := opts.Validate(); err != nil {
		rep.report(Progress{Phase: PhaseError, Err: err})
		return nil, err
	}
	if err := tl.Validate(); err != nil {
		rep.report(Progress{Phase: PhaseError, Err: err})
		return nil, err
	}

	rep.report(Progress{Phase: PhaseSetup, Progress: 0, Message: "probing encoder capabilities"})
	caps, err := video.Probe()
	if err != nil {
		rep.report(Progress{Phase: PhaseError, Err: err})
		return nil, err
	}

	sc, err := scene.Load(svgMarkup)
	if err != nil {
		rep.report(Progress{Phase: PhaseError, Err: err})
		return nil, err
	}

	// Container negotiation: the requested format first, then one
	// fallback to the alternate container. Never silent: the result
	// reports the format actually produced.
	formats := []string{opts.Format}
	if alt := config.AlternateFormat(opts.Format); caps.SupportsFormat(alt) {
		formats = append(formats, alt)
	}
	if !caps.SupportsFormat(opts.Format) {
		if len(formats) < 2 {
			err := fmt.Errorf("no supported container format for this environment")
			rep.report(Progress{Phase: PhaseError, Err: err})
			return nil, err
		}
		formats = formats[1:]
	}

	backendName := caps.PreferredBackend()
	e.log.Info("export starting",
		"backend", backendName,
		"formats", formats,
		"frames", renderer.FrameCount(opts.DurationMs, opts.FPS),
		"size", fmt.Sprintf("%dx%d@%d", opts.Width, opts.Height, opts.FPS))
	rep.report(Progress{Phase: PhaseSetup, Progress: 0.2, Message: "pipeline ready"})

	var attemptErrs []error
	for i, format := range formats {
		path, frames, renderTime, err := e.runPipeline(ctx, sc, tl, opts, format, backendName, rep)
		if err == nil {
			info, statErr := os.Stat(path)
			var size int64
			if statErr == nil {
				size = info.Size()
			}
			e.lastStats = Stats{
				Total:     time.Since(started),
				Rendering: renderTime,
				Encoding:  time.Since(started) - renderTime,
				Host:      system.TakeSnapshot(),
			}
			rep.report(Progress{Phase: PhaseComplete, Progress: 1.0, TotalFrames: frames})
			e.log.Info("export complete", "path", path, "bytes", size, "format", format)
			return &Result{
				Path:       path,
				SizeBytes:  size,
				DurationMs: opts.DurationMs,
				FrameCount: frames,
				Format:     format,
				Options:    opts,
			}, nil
		}

		attemptErrs = append(attemptErrs, err)
		var cfgErr *video.EncoderConfigError
		if errors.As(err, &cfgErr) && i+1 < len(formats) {
			e.log.Warn("encoder rejected format, falling back",
				"format", format, "fallback", formats[i+1], "err", err)
			continue
		}
		rep.report(Progress{Phase: PhaseError, Err: err})
		return nil, err
	}

	err = fmt.Errorf("all container formats failed: %v", errors.Join(attemptErrs...))
	rep.report(Progress{Phase: PhaseError, Err: err})
	return nil, err
}

// runPipeline performs one full render+encode attempt for a single
// container format. Frames flow through a small ordered channel; the
// encoder consumes them strictly in timestamp order.
func (e *Exporter) runPipeline(ctx context.Context, sc *scene.Scene, tl timeline.Timeline, opts config.Options, format, backendName string, rep *reporter) (string, int, time.Duration, error) {
	backend, err := video.NewBackend(backendName)
	if err != nil {
		return "", 0, 0, err
	}

	settings := video.Settings{
		Width:   opts.Width,
		Height:  opts.Height,
		FPS:     opts.FPS,
		Format:  format,
		Quality: opts.Quality,
		OutPath: outputPath(opts.OutPath, format),
	}
	if err := backend.Begin(settings); err != nil {
		return "", 0, 0, err
	}

	it := renderer.NewFrameIterator(sc, tl, opts.FPS, opts.DurationMs)
	comp := renderer.NewCompositor(opts.Width, opts.Height)
	total := it.Count()

	renderStart := time.Now()
	frames := make(chan *renderer.RasterFrame, 2)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(frames)
		return comp.RenderFrames(it,
			func(done, total int) {
				rep.report(Progress{
					Phase:        PhaseRendering,
					Progress:     0.2 + 0.6*float64(done)/float64(total),
					CurrentFrame: done,
					TotalFrames:  total,
				})
			},
			func(rf *renderer.RasterFrame) error {
				select {
				case frames <- rf:
					return nil
				case <-gctx.Done():
					comp.Recycle(rf.Image)
					return gctx.Err()
				}
			})
	})

	g.Go(func() error {
		for rf := range frames {
			err := backend.WriteFrame(rf)
			comp.Recycle(rf.Image)
			if err != nil {
				return err
			}
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		backend.Abort()
		return "", 0, 0, err
	}
	renderTime := time.Since(renderStart)

	rep.report(Progress{Phase: PhaseEncoding, Progress: 0.8, TotalFrames: total, Message: "flushing encoder"})
	path, err := backend.Finish()
	if err != nil {
		return "", 0, 0, err
	}
	return path, total, renderTime, nil
}

// outputPath resolves the container path for a format, generating a
// timestamped name when the caller gave none and fixing the extension
// when negotiation changed the container.
func outputPath(requested, format string) string {
	if requested == "" {
		return fmt.Sprintf("svg-motion_%s.%s", time.Now().Format("2006-01-02_15-04-05"), format)
	}
	for _, f := range config.Formats {
		if strings.HasSuffix(requested, "."+f) {
			return strings.TrimSuffix(requested, "."+f) + "." + format
		}
	}
	return requested
}
