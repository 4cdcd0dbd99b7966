package video

// bitsPerPixel is the target bits-per-pixel-per-second for a
// resolution tier; the target rises with resolution so fine detail on
// large canvases stays artifact-free.
func bitsPerPixel(width, height int) float64 {
	pixels := width * height
	switch {
	case pixels <= 480*270:
		return 0.10
	case pixels <= 1280*720:
		return 0.15
	case pixels <= 1920*1080:
		return 0.20
	default:
		return 0.25
	}
}

// BitrateKbps derives the target bitrate from the resolution tier and
// the quality factor in [0,1].
func BitrateKbps(width, height, fps int, quality float64) int {
	bps := bitsPerPixel(width, height) * float64(width) * float64(height) * float64(fps) * quality
	kbps := int(bps / 1000)
	if kbps < 100 {
		kbps = 100
	}
	return kbps
}

// KeyframeInterval is the GOP length: one keyframe every two seconds
// of output.
func KeyframeInterval(fps int) int {
	return fps * 2
}
