package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/AviKKi/svg-motion/internal/config"
	"github.com/AviKKi/svg-motion/internal/engine"
	"github.com/AviKKi/svg-motion/internal/system"
	"github.com/AviKKi/svg-motion/internal/timeline"
	"github.com/AviKKi/svg-motion/internal/video"
)

func main() {
	svgPtr := flag.String("svg", "", "Path to the SVG document (default: newest .svg in input/)")
	timelinePtr := flag.String("timeline", "", "Path to the timeline file, YAML or JSON (default: newest in input/)")
	outputPtr := flag.String("o", "", "Output video path (default: generated name)")
	widthPtr := flag.Int("width", 1280, "Output width")
	heightPtr := flag.Int("height", 720, "Output height")
	fpsPtr := flag.Int("fps", 30, "Frames per second")
	durationPtr := flag.Float64("duration", 0, "Export duration in ms (0 = derive from timeline)")
	formatPtr := flag.String("format", "mp4", "Container format: mp4, webm")
	qualityPtr := flag.Float64("quality", 0.8, "Quality factor in [0,1]")
	presetPtr := flag.String("preset", "", "Aspect preset: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram), 1:1")
	previewPtr := flag.Float64("preview-at", -1, "Render a PNG still at this timestamp (ms) instead of exporting")
	capsPtr := flag.Bool("capabilities", false, "Print encoding capabilities and exit")
	statsPtr := flag.Bool("stats", false, "Print a performance report after export")
	verbosePtr := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	level := slog.LevelWarn
	if *verbosePtr {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *capsPtr {
		caps, err := video.Probe()
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		fmt.Printf("[*] Formats:  %s\n", strings.Join(caps.Formats, ", "))
		fmt.Printf("[*] Backends: %s\n", strings.Join(caps.Backends, ", "))
		fmt.Printf("[*] Max size: %dx%d\n", caps.MaxWidth, caps.MaxHeight)
		fmt.Printf("[*] Default:  %dx%d @ %d fps, %s, q=%.2f\n",
			caps.Recommended.Width, caps.Recommended.Height, caps.Recommended.FPS,
			caps.Recommended.Format, caps.Recommended.Quality)
		return
	}

	svgPath := *svgPtr
	if svgPath == "" {
		latest, err := system.FindLatestSVG("input")
		if err != nil {
			log.Fatalf("[-] %v. Pass -svg or put an .svg in input/", err)
		}
		svgPath = latest
		fmt.Printf("[*] Using SVG: %s\n", svgPath)
	}

	markup, err := os.ReadFile(svgPath)
	if err != nil {
		log.Fatalf("[-] Failed to read SVG: %v", err)
	}

	var tl timeline.Timeline
	timelinePath := *timelinePtr
	if timelinePath == "" {
		if latest, err := system.FindLatestTimeline("input"); err == nil {
			timelinePath = latest
			fmt.Printf("[*] Using timeline: %s\n", timelinePath)
		}
	}
	if timelinePath != "" {
		loaded, err := timeline.Read(timelinePath)
		if err != nil {
			log.Fatalf("[-] Failed to read timeline: %v", err)
		}
		tl = *loaded
	}

	opts := config.Options{
		Width:      *widthPtr,
		Height:     *heightPtr,
		FPS:        *fpsPtr,
		DurationMs: *durationPtr,
		Format:     *formatPtr,
		Quality:    *qualityPtr,
		OutPath:    *outputPtr,
	}
	opts.ApplyPreset(*presetPtr)

	if *previewPtr >= 0 {
		png, err := engine.Preview(string(markup), tl, *previewPtr, opts.Width, opts.Height)
		if err != nil {
			log.Fatalf("[-] Preview failed: %v", err)
		}
		out := opts.OutPath
		if out == "" {
			out = fmt.Sprintf("preview_%dms.png", int(*previewPtr))
		}
		if err := os.WriteFile(out, png, 0644); err != nil {
			log.Fatalf("[-] Failed to write preview: %v", err)
		}
		fmt.Printf("[+++] Preview written: %s\n", out)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter := engine.New(logger)
	lastFrame := -1
	result, err := exporter.Export(ctx, string(markup), tl, opts, func(p engine.Progress) {
		switch p.Phase {
		case engine.PhaseRendering:
			if p.CurrentFrame != lastFrame {
				lastFrame = p.CurrentFrame
				fmt.Printf("\r[>] Rendering: %d/%d (%.0f%%)", p.CurrentFrame, p.TotalFrames, p.Progress*100)
			}
		case engine.PhaseEncoding:
			fmt.Printf("\n[*] Encoding...\n")
		case engine.PhaseError:
			fmt.Println()
		}
	})
	if err != nil {
		log.Fatalf("[-] Export failed: %v", err)
	}

	fmt.Printf("[+++] Done! %s (%d frames, %.1f KB, %s)\n",
		result.Path, result.FrameCount, float64(result.SizeBytes)/1024, result.Format)
	if result.Format != opts.Format {
		fmt.Printf("[!] Container substituted: requested %s, produced %s\n", opts.Format, result.Format)
	}

	if *statsPtr {
		st := exporter.LastStats()
		fmt.Printf("--- [PERFORMANCE REPORT] ---\n")
		fmt.Printf("Total Time: %.2fs\n", st.Total.Seconds())
		fmt.Printf("Rendering:  %.2fs\n", st.Rendering.Seconds())
		fmt.Printf("Encoding:   %.2fs\n", st.Encoding.Seconds())
		fmt.Printf("Host:       %s\n", st.Host)
		fmt.Printf("----------------------------\n")
	}
}
