//go:build linux

package index

import (
	"os"
	"syscall"
	"time"
)

// creationTime approximates file creation time. Linux only exposes the
// inode change time through stat, which is the closest portable signal.
func creationTime(info os.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(stat.Ctim.Sec), int64(stat.Ctim.Nsec))
	}
	return info.ModTime()
}

// systemDenyList returns directories that are always excluded from a scan.
func systemDenyList() []string {
	return []string{"/proc", "/sys", "/dev", "/run", "/boot"}
}
