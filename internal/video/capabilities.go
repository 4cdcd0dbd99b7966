package video

import (
	"errors"

	"github.com/AviKKi/svg-motion/internal/config"
	"github.com/AviKKi/svg-motion/internal/system"
)

// Backend names reported by the capability probe.
const (
	BackendPipe     = "pipe"
	BackendSequence = "sequence"
)

// ErrUnsupported means no encoding backend exists in this
// environment. Callers should surface this before offering export at
// all, instead of letting users fail deep inside the pipeline.
var ErrUnsupported = errors.New("video export unsupported: ffmpeg not found")

// Capabilities describes what this environment can encode. Probing
// has no side effects and starts no export.
type Capabilities struct {
	Formats     []string
	Backends    []string
	MaxWidth    int
	MaxHeight   int
	Recommended config.Options
}

// SupportsFormat reports whether the probe claimed container support.
func (c *Capabilities) SupportsFormat(format string) bool {
	for _, f := range c.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// PreferredBackend returns the best available backend name.
func (c *Capabilities) PreferredBackend() string {
	for _, b := range c.Backends {
		if b == BackendPipe {
			return BackendPipe
		}
	}
	if len(c.Backends) > 0 {
		return c.Backends[0]
	}
	return ""
}

// Probe detects the environment's encoding capabilities.
func Probe() (*Capabilities, error) {
	if !system.FFmpegAvailable() {
		return nil, ErrUnsupported
	}

	caps := &Capabilities{}
	for _, format := range config.Formats {
		if system.HasMuxer(format) && system.HasEncoder(encoderFor(format)) {
			caps.Formats = append(caps.Formats, format)
		}
	}
	if len(caps.Formats) == 0 {
		return nil, ErrUnsupported
	}

	// The pipe path needs the rawvideo demuxer; the sequence spool
	// needs image2. Constrained ffmpeg builds can have one without
	// the other, which is exactly the fallback case.
	if system.HasDemuxer("rawvideo") {
		caps.Backends = append(caps.Backends, BackendPipe)
	}
	if system.HasDemuxer("image2") {
		caps.Backends = append(caps.Backends, BackendSequence)
	}
	if len(caps.Backends) == 0 {
		return nil, ErrUnsupported
	}

	// The sequence spool tops out lower: spooling 4k PNG frames to
	// disk is not a workable export path.
	if caps.PreferredBackend() == BackendPipe {
		caps.MaxWidth, caps.MaxHeight = config.MaxDimension, config.MaxDimension
	} else {
		caps.MaxWidth, caps.MaxHeight = 1920, 1080
	}

	rec := config.Defaults()
	if !caps.SupportsFormat(rec.Format) {
		rec.Format = caps.Formats[0]
	}
	caps.Recommended = rec
	return caps, nil
}
