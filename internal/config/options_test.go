package config

import (
	"strings"
	"testing"
)

func TestValidateAggregatesProblems(t *testing.T) {
	opts := Options{
		Width:      0,
		Height:     5000,
		FPS:        200,
		DurationMs: -1,
		Format:     "avi",
		Quality:    2,
	}

	err := opts.Validate()
	if err == nil {
		t.Fatal("expected a validation error")
	}
	vErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(vErr.Problems) != 6 {
		t.Errorf("expected all 6 violations reported together, got %d: %v", len(vErr.Problems), vErr.Problems)
	}
	for _, field := range []string{"width", "height", "fps", "durationMs", "format", "quality"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("aggregated message should cite %q: %s", field, err.Error())
		}
	}
}

func TestValidateAccepts(t *testing.T) {
	opts := Options{Width: 1920, Height: 1080, FPS: 60, DurationMs: 10000, Format: "webm", Quality: 1}
	if err := opts.Validate(); err != nil {
		t.Errorf("expected valid options, got %v", err)
	}
}

func TestValidateZeroWidthCitesWidth(t *testing.T) {
	opts := Options{Width: 0, Height: 720, FPS: 30, DurationMs: 1000, Format: "mp4"}
	err := opts.Validate()
	if err == nil {
		t.Fatal("expected a validation error for width 0")
	}
	if !strings.Contains(err.Error(), "width") {
		t.Errorf("error should cite width: %s", err.Error())
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset string
		w, h   int
	}{
		{"16:9", 1280, 720},
		{"9:16", 720, 1280},
		{"4:5", 1080, 1350},
		{"1:1", 1080, 1080},
	}
	for _, tt := range tests {
		opts := Defaults()
		opts.ApplyPreset(tt.preset)
		if opts.Width != tt.w || opts.Height != tt.h {
			t.Errorf("preset %s: expected %dx%d, got %dx%d", tt.preset, tt.w, tt.h, opts.Width, opts.Height)
		}
	}

	opts := Defaults()
	opts.ApplyPreset("nonsense")
	if opts.Width != 1280 || opts.Height != 720 {
		t.Error("unknown preset should leave options untouched")
	}
}

func TestAlternateFormat(t *testing.T) {
	if AlternateFormat("mp4") != "webm" || AlternateFormat("webm") != "mp4" {
		t.Error("mp4 and webm should be each other's fallback")
	}
}

func TestEffectiveQuality(t *testing.T) {
	if got := (Options{}).EffectiveQuality(); got != 0.8 {
		t.Errorf("zero quality should default to 0.8, got %g", got)
	}
	if got := (Options{Quality: 0.3}).EffectiveQuality(); got != 0.3 {
		t.Errorf("explicit quality should pass through, got %g", got)
	}
}
