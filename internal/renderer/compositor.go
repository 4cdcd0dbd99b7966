package renderer

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	"github.com/AviKKi/svg-motion/internal/scene"
	"github.com/AviKKi/svg-motion/internal/timeline"
)

// RasterFrame is the rasterized pixel buffer for one Frame. The
// backing surface comes from the compositor's pool; the consumer must
// finish with it (and hand it back via Compositor.Recycle) before
// asking for the next frame.
type RasterFrame struct {
	Image       *image.RGBA
	TimestampMs float64
	Index       int
}

// DecodeError means a frame's serialized markup failed to rasterize.
// It is fatal to the export: a silently dropped frame would corrupt
// the video timing.
type DecodeError struct {
	FrameIndex int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("frame %d: rasterize failed: %v", e.FrameIndex, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Compositor rasterizes serialized frames onto a fixed-size canvas.
// Output surfaces are recycled through a pool; one compositor serves
// one output size, so the pool needs no per-size keying.
type Compositor struct {
	width  int
	height int
	pool   sync.Pool
}

func NewCompositor(width, height int) *Compositor {
	c := &Compositor{width: width, height: height}
	c.pool.New = func() any {
		return image.NewRGBA(image.Rect(0, 0, width, height))
	}
	return c
}

// Recycle returns a raster surface for reuse by a later frame. The
// caller must not touch the image afterwards.
func (c *Compositor) Recycle(img *image.RGBA) {
	if img == nil {
		return
	}
	c.pool.Put(img)
}

// RenderFrame rasterizes one frame. The markup is drawn at its
// intrinsic size and then blitted, aspect preserved, onto a white
// canvas of the configured output size.
func (c *Compositor) RenderFrame(f Frame) (*RasterFrame, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(f.Markup), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, &DecodeError{FrameIndex: f.Index, Err: err}
	}

	srcW, srcH := intrinsicSize(icon, c.width, c.height)
	src := image.NewRGBA(image.Rect(0, 0, srcW, srcH))
	draw.Draw(src, src.Bounds(), image.White, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(srcW, srcH, src, src.Bounds())
	raster := rasterx.NewDasher(srcW, srcH, scanner)
	icon.SetTarget(0, 0, float64(srcW), float64(srcH))
	icon.Draw(raster, 1.0)

	dst := c.pool.Get().(*image.RGBA)
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	xdraw.ApproxBiLinear.Scale(dst, fitRect(srcW, srcH, c.width, c.height), src, src.Bounds(), xdraw.Over, nil)

	return &RasterFrame{Image: dst, TimestampMs: f.TimestampMs, Index: f.Index}, nil
}

// RenderFrames drains a frame iterator through the rasterizer,
// reporting progress per frame and handing each raster to consume.
// The consume callback owns the raster until it returns.
func (c *Compositor) RenderFrames(it *FrameIterator, onProgress func(done, total int), consume func(*RasterFrame) error) error {
	total := it.Count()
	done := 0
	for it.Next() {
		rf, err := c.RenderFrame(it.Frame())
		if err != nil {
			return err
		}
		if err := consume(rf); err != nil {
			return err
		}
		done++
		if onProgress != nil {
			onProgress(done, total)
		}
	}
	return it.Err()
}

// RenderStill renders a single timestamp to an encoded PNG. This is
// the preview path; it shares the seek and raster code with the video
// path but touches no encoder state.
func RenderStill(sc *scene.Scene, tl timeline.Timeline, timestampMs float64, width, height int) ([]byte, error) {
	SeekScene(sc, tl, timestampMs)
	markup, err := sc.Serialize()
	if err != nil {
		return nil, err
	}

	c := NewCompositor(width, height)
	rf, err := c.RenderFrame(Frame{Markup: markup, TimestampMs: timestampMs})
	if err != nil {
		return nil, err
	}
	defer c.Recycle(rf.Image)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rf.Image); err != nil {
		return nil, fmt.Errorf("encode preview png: %w", err)
	}
	return buf.Bytes(), nil
}

// intrinsicSize picks the rasterization size for an icon, defaulting
// to the output size when the document declares none.
func intrinsicSize(icon *oksvg.SvgIcon, defW, defH int) (int, int) {
	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		return defW, defH
	}
	const maxSide = 4096
	if w > maxSide {
		h = h * maxSide / w
		w = maxSide
	}
	if h > maxSide {
		w = w * maxSide / h
		h = maxSide
	}
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

// fitRect letterboxes a source aspect ratio inside the output canvas.
func fitRect(srcW, srcH, dstW, dstH int) image.Rectangle {
	scale := float64(dstW) / float64(srcW)
	if s := float64(dstH) / float64(srcH); s < scale {
		scale = s
	}
	w := int(float64(srcW) * scale)
	h := int(float64(srcH) * scale)
	x := (dstW - w) / 2
	y := (dstH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}
