package system

import (
	"os/exec"
	"strings"
	"sync"
)

// ffmpeg listings are cached for the process lifetime; capability
// queries must be cheap enough to call before every export.
var (
	probeOnce   sync.Once
	ffmpegFound bool
	encoderList string
	muxerList   string
	demuxerList string
)

func runFFmpeg(args ...string) (string, error) {
	cmd := exec.Command("ffmpeg", args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func probe() {
	probeOnce.Do(func() {
		if _, err := exec.LookPath("ffmpeg"); err != nil {
			return
		}
		ffmpegFound = true
		// ffmpeg exits non-zero for some -h style listings; the text
		// output is still usable.
		encoderList, _ = runFFmpeg("-hide_banner", "-encoders")
		muxerList, _ = runFFmpeg("-hide_banner", "-muxers")
		demuxerList, _ = runFFmpeg("-hide_banner", "-demuxers")
	})
}

// FFmpegAvailable reports whether an ffmpeg binary is on PATH.
func FFmpegAvailable() bool {
	probe()
	return ffmpegFound
}

// HasEncoder reports whether ffmpeg lists the named encoder.
func HasEncoder(name string) bool {
	probe()
	return listContains(encoderList, name)
}

// HasMuxer reports whether ffmpeg lists the named muxer.
func HasMuxer(name string) bool {
	probe()
	return listContains(muxerList, name)
}

// HasDemuxer reports whether ffmpeg lists the named demuxer.
func HasDemuxer(name string) bool {
	probe()
	return listContains(demuxerList, name)
}

// listContains matches a name token in ffmpeg's -encoders/-muxers
// table output.
func listContains(listing, name string) bool {
	for _, line := range strings.Split(listing, "\n") {
		for _, field := range strings.Fields(line) {
			if field == name {
				return true
			}
		}
	}
	return false
}

// BestH264Encoder picks the preferred H.264 encoder: hardware paths
// first (VideoToolbox on macOS, NVENC on NVIDIA), then libx264.
func BestH264Encoder() string {
	for _, enc := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if HasEncoder(enc) {
			return enc
		}
	}
	return "libx264"
}

// BestVP9Encoder picks the WebM encoder.
func BestVP9Encoder() string {
	if HasEncoder("libvpx-vp9") {
		return "libvpx-vp9"
	}
	return "libvpx"
}
