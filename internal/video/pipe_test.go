package video

import (
	"errors"
	"image"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/AviKKi/svg-motion/internal/renderer"
)

func TestWriteFrameClassifiesEarlyEncoderExit(t *testing.T) {
	// Stand-in for an ffmpeg process that rejects its configuration:
	// exits non-zero without ever reading stdin.
	cmd := exec.Command("sh", "-c", "exit 1")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.Fatalf("stdin pipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start sh: %v", err)
	}

	b := &PipeBackend{
		settings: Settings{
			Width: 128, Height: 128, FPS: 30,
			Format:  "mp4",
			OutPath: filepath.Join(t.TempDir(), "out.mp4"),
		},
		cmd:   cmd,
		stdin: stdin,
	}

	// Each 128x128 frame is one pipe buffer's worth; with nothing
	// draining the pipe, a write fails as soon as the process is gone.
	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	var wErr error
	for i := 0; i < 64 && wErr == nil; i++ {
		wErr = b.WriteFrame(&renderer.RasterFrame{Image: img, Index: i})
	}
	if wErr == nil {
		t.Fatal("expected a write failure once the encoder process exited")
	}

	var cfgErr *EncoderConfigError
	if !errors.As(wErr, &cfgErr) {
		t.Fatalf("early encoder exit should classify as *EncoderConfigError, got %T: %v", wErr, wErr)
	}
	if cfgErr.Format != "mp4" {
		t.Errorf("config error should carry the session format, got %q", cfgErr.Format)
	}

	// The session is closed out; Abort on a reaped backend is a no-op.
	b.Abort()
}
