package video

import (
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/AviKKi/svg-motion/internal/renderer"
	"github.com/AviKKi/svg-motion/internal/system"
)

// SequenceBackend is the degraded fallback: frames are spooled to
// disk as a numbered PNG sequence and re-encoded in one ffmpeg pass.
// It has no per-frame timestamp control and pays a disk round trip
// per frame, so it is selected only when the pipe path is not
// available.
type SequenceBackend struct {
	settings Settings
	dir      string
	frames   int
}

func (b *SequenceBackend) Name() string { return BackendSequence }

func (b *SequenceBackend) Begin(s Settings) error {
	if !system.HasMuxer(s.Format) {
		return &EncoderConfigError{
			Backend: b.Name(),
			Format:  s.Format,
			Err:     fmt.Errorf("ffmpeg has no %s muxer", s.Format),
		}
	}
	dir, err := os.MkdirTemp("", "svgmotion_seq_")
	if err != nil {
		return fmt.Errorf("create frame spool dir: %w", err)
	}
	b.settings = s
	b.dir = dir
	b.frames = 0
	return nil
}

func (b *SequenceBackend) WriteFrame(f *renderer.RasterFrame) error {
	if b.dir == "" {
		return fmt.Errorf("sequence backend: WriteFrame before Begin")
	}
	path := filepath.Join(b.dir, fmt.Sprintf("frame_%06d.png", f.Index))
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, f.Image); err != nil {
		file.Close()
		return fmt.Errorf("spool frame %d: %w", f.Index, err)
	}
	b.frames++
	return file.Close()
}

func (b *SequenceBackend) Finish() (string, error) {
	if b.dir == "" {
		return "", fmt.Errorf("sequence backend: Finish before Begin")
	}
	defer os.RemoveAll(b.dir)

	s := b.settings
	args := []string{
		"-y",
		"-framerate", fmt.Sprintf("%d", s.FPS),
		"-i", filepath.Join(b.dir, "frame_%06d.png"),
		"-c:v", encoderFor(s.Format),
		"-b:v", fmt.Sprintf("%dk", BitrateKbps(s.Width, s.Height, s.FPS, s.Quality)),
		"-g", fmt.Sprintf("%d", KeyframeInterval(s.FPS)),
		"-pix_fmt", "yuv420p",
		"-f", s.Format,
		s.OutPath,
	}
	cmd := exec.Command("ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(s.OutPath)
		return "", &EncoderConfigError{
			Backend: b.Name(),
			Format:  s.Format,
			Err:     err,
			Log:     logTail(string(out)),
		}
	}
	return s.OutPath, nil
}

func (b *SequenceBackend) Abort() {
	if b.dir != "" {
		os.RemoveAll(b.dir)
		b.dir = ""
	}
	os.Remove(b.settings.OutPath)
}
