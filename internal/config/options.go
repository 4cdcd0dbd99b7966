// Package config holds export options and their validation rules.
package config

import (
	"fmt"
	"strings"
)

// Hard limits for one export. Anything outside these is rejected up
// front, before any resource is allocated.
const (
	MaxDimension  = 4096
	MaxFPS        = 120
	MaxDurationMs = 300000
)

// Formats lists the containers an export may request.
var Formats = []string{"mp4", "webm"}

// Options describes one export request.
type Options struct {
	Width      int
	Height     int
	FPS        int
	DurationMs float64
	Format     string
	// Quality scales the resolution-tier bitrate; zero means the
	// default of 0.8.
	Quality float64
	// OutPath is where the container is written. Empty means a
	// generated path in the working directory.
	OutPath string
}

// Defaults returns the recommended export options.
func Defaults() Options {
	return Options{
		Width:   1280,
		Height:  720,
		FPS:     30,
		Format:  "mp4",
		Quality: 0.8,
	}
}

// ApplyPreset overrides width/height for a named aspect preset.
// Unknown names leave the options untouched.
func (o *Options) ApplyPreset(name string) {
	switch name {
	case "16:9":
		o.Width, o.Height = 1280, 720
	case "9:16":
		o.Width, o.Height = 720, 1280
	case "4:5":
		o.Width, o.Height = 1080, 1350
	case "1:1":
		o.Width, o.Height = 1080, 1080
	}
}

// EffectiveQuality resolves the quality default.
func (o Options) EffectiveQuality() float64 {
	if o.Quality <= 0 {
		return 0.8
	}
	return o.Quality
}

// ValidationError aggregates every option violation in one error, so
// a caller can fix all of them in a single round trip.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid export options: " + strings.Join(e.Problems, "; ")
}

// Validate checks every field and returns a single aggregated
// *ValidationError, never a partial report.
func (o Options) Validate() error {
	var problems []string

	if o.Width <= 0 || o.Width > MaxDimension {
		problems = append(problems, fmt.Sprintf("width must be in (0, %d], got %d", MaxDimension, o.Width))
	}
	if o.Height <= 0 || o.Height > MaxDimension {
		problems = append(problems, fmt.Sprintf("height must be in (0, %d], got %d", MaxDimension, o.Height))
	}
	if o.FPS <= 0 || o.FPS > MaxFPS {
		problems = append(problems, fmt.Sprintf("fps must be in (0, %d], got %d", MaxFPS, o.FPS))
	}
	if o.DurationMs <= 0 || o.DurationMs > MaxDurationMs {
		problems = append(problems, fmt.Sprintf("durationMs must be in (0, %d], got %g", MaxDurationMs, o.DurationMs))
	}
	if o.Quality < 0 || o.Quality > 1 {
		problems = append(problems, fmt.Sprintf("quality must be in [0, 1], got %g", o.Quality))
	}
	if !FormatSupported(o.Format) {
		problems = append(problems, fmt.Sprintf("format must be one of %s, got %q", strings.Join(Formats, "/"), o.Format))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// FormatSupported reports whether the container format is one this
// exporter can produce at all.
func FormatSupported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// AlternateFormat returns the fallback container for format
// negotiation.
func AlternateFormat(format string) string {
	if format == "mp4" {
		return "webm"
	}
	return "mp4"
}
