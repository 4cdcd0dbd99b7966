package video

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"

	"github.com/AviKKi/svg-motion/internal/renderer"
	"github.com/AviKKi/svg-motion/internal/system"
)

// PipeBackend is the frame-accurate path: raw RGBA frames are
// streamed over ffmpeg's stdin with an explicit input framerate, so
// every frame lands at its exact presentation timestamp.
type PipeBackend struct {
	settings Settings
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	log      bytes.Buffer
	frames   int
}

func (b *PipeBackend) Name() string { return BackendPipe }

// encoderFor maps a container to its ffmpeg encoder, preferring
// probed hardware encoders for mp4.
func encoderFor(format string) string {
	if format == "webm" {
		return system.BestVP9Encoder()
	}
	return system.BestH264Encoder()
}

func (b *PipeBackend) Begin(s Settings) error {
	if !system.HasMuxer(s.Format) {
		return &EncoderConfigError{
			Backend: b.Name(),
			Format:  s.Format,
			Err:     fmt.Errorf("ffmpeg has no %s muxer", s.Format),
		}
	}
	encoder := encoderFor(s.Format)
	if !system.HasEncoder(encoder) {
		return &EncoderConfigError{
			Backend: b.Name(),
			Format:  s.Format,
			Err:     fmt.Errorf("ffmpeg has no %s encoder", encoder),
		}
	}

	bitrate := BitrateKbps(s.Width, s.Height, s.FPS, s.Quality)
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", s.Width, s.Height),
		"-framerate", fmt.Sprintf("%d", s.FPS),
		"-i", "-",
		"-c:v", encoder,
		"-b:v", fmt.Sprintf("%dk", bitrate),
		"-g", fmt.Sprintf("%d", KeyframeInterval(s.FPS)),
		"-pix_fmt", "yuv420p",
		"-f", s.Format,
		s.OutPath,
	}

	cmd := exec.Command("ffmpeg", args...)
	cmd.Stdout = &b.log
	cmd.Stderr = &b.log

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	b.settings = s
	b.cmd = cmd
	b.stdin = stdin
	b.frames = 0
	return nil
}

func (b *PipeBackend) WriteFrame(f *renderer.RasterFrame) error {
	if b.cmd == nil {
		return fmt.Errorf("pipe backend: WriteFrame before Begin")
	}
	if err := writeRawRGBA(b.stdin, f.Image); err != nil {
		// A broken pipe here usually means ffmpeg rejected the
		// configuration and exited before consuming any frames. Reap
		// the process so the rejection classifies the same way it
		// would from Finish, log attached.
		b.stdin.Close()
		waitErr := b.cmd.Wait()
		b.cmd = nil
		os.Remove(b.settings.OutPath)
		if waitErr != nil {
			return &EncoderConfigError{
				Backend: b.Name(),
				Format:  b.settings.Format,
				Err:     waitErr,
				Log:     logTail(b.log.String()),
			}
		}
		return fmt.Errorf("write raw frame %d: %w", f.Index, err)
	}
	b.frames++
	return nil
}

func (b *PipeBackend) Finish() (string, error) {
	if b.cmd == nil {
		return "", fmt.Errorf("pipe backend: Finish before Begin")
	}
	b.stdin.Close()
	if err := b.cmd.Wait(); err != nil {
		os.Remove(b.settings.OutPath)
		return "", &EncoderConfigError{
			Backend: b.Name(),
			Format:  b.settings.Format,
			Err:     err,
			Log:     logTail(b.log.String()),
		}
	}
	return b.settings.OutPath, nil
}

func (b *PipeBackend) Abort() {
	if b.cmd == nil {
		return
	}
	b.stdin.Close()
	if b.cmd.Process != nil {
		b.cmd.Process.Kill()
	}
	b.cmd.Wait()
	os.Remove(b.settings.OutPath)
	b.cmd = nil
}

// writeRawRGBA streams an image's pixels in rgba byte order, row by
// row when the backing array has a non-standard stride.
func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if img.Stride == bounds.Dx()*4 && bounds.Min.X == 0 && bounds.Min.Y == 0 {
		_, err := w.Write(img.Pix)
		return err
	}
	rowLen := bounds.Dx() * 4
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		offset := img.PixOffset(bounds.Min.X, y)
		if _, err := w.Write(img.Pix[offset : offset+rowLen]); err != nil {
			return err
		}
	}
	return nil
}

// logTail keeps the last chunk of an ffmpeg session log, which is
// where the actionable error lives.
func logTail(log string) string {
	const keep = 2048
	if len(log) <= keep {
		return log
	}
	return "..." + log[len(log)-keep:]
}
