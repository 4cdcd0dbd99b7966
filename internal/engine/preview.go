package engine

import (
	"fmt"

	"github.com/AviKKi/svg-motion/internal/config"
	"github.com/AviKKi/svg-motion/internal/renderer"
	"github.com/AviKKi/svg-motion/internal/scene"
	"github.com/AviKKi/svg-motion/internal/timeline"
)

// Preview renders the animation state at one timestamp to an encoded
// PNG. It is independent of the video path and of the exporter's busy
// gate, so a UI can call it repeatedly while an export runs elsewhere.
func Preview(svgMarkup string, tl timeline.Timeline, timestampMs float64, width, height int) ([]byte, error) {
	if width <= 0 || width > config.MaxDimension || height <= 0 || height > config.MaxDimension {
		return nil, fmt.Errorf("preview size must be in (0, %d], got %dx%d", config.MaxDimension, width, height)
	}
	if timestampMs < 0 {
		return nil, fmt.Errorf("preview timestamp must be >= 0, got %g", timestampMs)
	}

	sc, err := scene.Load(svgMarkup)
	if err != nil {
		return nil, err
	}
	return renderer.RenderStill(sc, tl, timestampMs, width, height)
}
