//go:build !linux && !darwin && !windows

package index

import (
	"os"
	"time"
)

func creationTime(info os.FileInfo) time.Time {
	return info.ModTime()
}

func systemDenyList() []string {
	return nil
}
