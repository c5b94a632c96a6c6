//go:build darwin

package index

import (
	"os"
	"syscall"
	"time"
)

// creationTime reads the real birth time APFS/HFS+ track.
func creationTime(info os.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec)
	}
	return info.ModTime()
}

// systemDenyList returns directories that are always excluded from a scan.
func systemDenyList() []string {
	return []string{"/System", "/Library", "/private/var", "/dev"}
}
