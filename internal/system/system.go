package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot is a host summary attached to export stats and capability
// reports.
type Snapshot struct {
	OS             string
	CPUCount       int
	TotalMemMB     uint64
	AvailableMemMB uint64
}

// TakeSnapshot collects host information. Failures degrade to zeros;
// stats reporting is never a reason to fail an export.
func TakeSnapshot() Snapshot {
	snap := Snapshot{OS: runtime.GOOS}
	if counts, err := cpu.Counts(true); err == nil {
		snap.CPUCount = counts
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.TotalMemMB = vm.Total / (1024 * 1024)
		snap.AvailableMemMB = vm.Available / (1024 * 1024)
	}
	return snap
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%s, %d cpus, %d/%d MB free", s.OS, s.CPUCount, s.AvailableMemMB, s.TotalMemMB)
}

// FindLatestSVG returns the most recently modified .svg file in dir.
func FindLatestSVG(dir string) (string, error) {
	return findLatest(dir, []string{".svg"})
}

// FindLatestTimeline returns the most recently modified timeline file
// (.yaml, .yml or .json) in dir.
func FindLatestTimeline(dir string) (string, error) {
	return findLatest(dir, []string{".yaml", ".yml", ".json"})
}

func findLatest(dir string, extensions []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		matched := false
		for _, ext := range extensions {
			if strings.HasSuffix(strings.ToLower(f.Name()), ext) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no %s files found in %s", strings.Join(extensions, "/"), dir)
	}

	return latestFile, nil
}
