package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestListContains(t *testing.T) {
	listing := ` V..... libx264              libx264 H.264 / AVC / MPEG-4 AVC
 V....D h264_videotoolbox    VideoToolbox H.264 Encoder
 V..... libvpx-vp9           libvpx VP9`

	if !listContains(listing, "libx264") {
		t.Error("expected libx264 to be found")
	}
	if !listContains(listing, "h264_videotoolbox") {
		t.Error("expected h264_videotoolbox to be found")
	}
	if listContains(listing, "h264") {
		t.Error("partial names must not match")
	}
	if listContains(listing, "av1_qsv") {
		t.Error("absent encoder must not match")
	}
}

func TestFindLatestSVG(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "a.svg")
	newer := filepath.Join(dir, "b.svg")
	ignored := filepath.Join(dir, "c.txt")
	for _, p := range []string{older, newer, ignored} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := FindLatestSVG(dir)
	if err != nil {
		t.Fatalf("FindLatestSVG failed: %v", err)
	}
	if got != newer {
		t.Errorf("expected %s, got %s", newer, got)
	}
}

func TestFindLatestTimelineEmpty(t *testing.T) {
	if _, err := FindLatestTimeline(t.TempDir()); err == nil {
		t.Error("expected an error for an empty directory")
	}
}

func TestTakeSnapshot(t *testing.T) {
	snap := TakeSnapshot()
	if snap.OS == "" {
		t.Error("snapshot should carry the OS name")
	}
	t.Logf("host: %s", snap)
}
