// Package video encodes ordered raster-frame streams into a video
// container through ffmpeg. Two interchangeable backends exist: the
// frame-accurate raw pipe, and a degraded image-sequence fallback.
// Callers pick one at export start via the capability probe and talk
// to the Backend interface from then on.
package video

import (
	"fmt"

	"github.com/AviKKi/svg-motion/internal/renderer"
)

// Settings configures one encode session.
type Settings struct {
	Width   int
	Height  int
	FPS     int
	Format  string
	Quality float64
	OutPath string
}

// Backend is the encoding strategy. Frames must arrive strictly in
// presentation order; Begin must succeed before the first WriteFrame;
// exactly one of Finish or Abort ends the session.
type Backend interface {
	Name() string
	Begin(s Settings) error
	WriteFrame(f *renderer.RasterFrame) error
	Finish() (string, error)
	Abort()
}

// EncoderConfigError means the backend rejected the requested
// codec/container/resolution combination. The orchestrator reacts by
// trying the alternate container format exactly once.
type EncoderConfigError struct {
	Backend string
	Format  string
	Err     error
	Log     string
}

func (e *EncoderConfigError) Error() string {
	if e.Log != "" {
		return fmt.Sprintf("%s backend rejected %s encode: %v\n%s", e.Backend, e.Format, e.Err, e.Log)
	}
	return fmt.Sprintf("%s backend rejected %s encode: %v", e.Backend, e.Format, e.Err)
}

func (e *EncoderConfigError) Unwrap() error { return e.Err }

// NewBackend constructs a backend by probe name.
func NewBackend(name string) (Backend, error) {
	switch name {
	case BackendPipe:
		return &PipeBackend{}, nil
	case BackendSequence:
		return &SequenceBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown video backend %q", name)
	}
}
