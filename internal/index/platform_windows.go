//go:build windows

package index

import (
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// creationTime reads the NTFS creation timestamp.
func creationTime(info os.FileInfo) time.Time {
	if attr, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, attr.CreationTime.Nanoseconds())
	}
	return info.ModTime()
}

// systemDenyList returns directories that are always excluded from a scan.
func systemDenyList() []string {
	drive := os.Getenv("SystemDrive")
	if drive == "" {
		drive = "C:"
	}
	return []string{
		filepath.Join(drive+`\`, "Windows"),
		filepath.Join(drive+`\`, "Program Files"),
		filepath.Join(drive+`\`, "Program Files (x86)"),
		filepath.Join(drive+`\`, "ProgramData"),
	}
}
