package index

import (
	"fmt"
	"time"
)

// FileDescriptor captures everything later stages need to know about a
// regular file. Descriptors are created during the walk and never mutated.
type FileDescriptor struct {
	Path       string
	Size       int64
	CreatedAt  time.Time
	ModifiedAt time.Time
	Extension  string
	Depth      int // directory depth below the scan root
}

// EffectiveCreation returns the earlier of creation and modification time.
// Creation time semantics are unreliable on some filesystems (copies reset
// it, some unix filesystems only track change time), so the minimum is the
// safest "how old is this content" signal.
func (fd FileDescriptor) EffectiveCreation() time.Time {
	if fd.CreatedAt.Before(fd.ModifiedAt) {
		return fd.CreatedAt
	}
	return fd.ModifiedAt
}

// ScanError records a path whose metadata could not be read. It never
// aborts a walk.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
