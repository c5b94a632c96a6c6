/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package quarantine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/substantialcattle5/naib/internal/constants"
	"github.com/substantialcattle5/naib/internal/hash"
	"github.com/substantialcattle5/naib/internal/index"
	"github.com/substantialcattle5/naib/internal/logger"
)

// RestoreResult summarizes an undo of one quarantine run.
type RestoreResult struct {
	Restored int
	Failed   int
	Errors   []error
}

// Restore moves every file of a manifest back to its original location,
// verifying each file's content digest against the manifest first. A file
// whose original path is occupied again is left in quarantine. Per-file
// failures are collected; the restore continues.
func Restore(ctx context.Context, manifestPath string) (*RestoreResult, error) {
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	hasher, err := hash.NewHasher(manifest.Algorithm, nil)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	result := &RestoreResult{}

	for _, entry := range manifest.Entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := restoreEntry(ctx, hasher, entry); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err)
			log.Warn().Err(err).Str("path", entry.QuarantinePath).Msg("restore failed")
			continue
		}
		result.Restored++
		log.Debug().Str("from", entry.QuarantinePath).Str("to", entry.OriginalPath).Msg("restored")
	}

	return result, nil
}

func restoreEntry(ctx context.Context, hasher *hash.Hasher, entry RestoreEntry) error {
	info, err := os.Stat(entry.QuarantinePath)
	if err != nil {
		return &ActionError{Op: "restore", Path: entry.QuarantinePath, Err: err}
	}

	// The quarantined copy must still be byte-identical to what was moved.
	fd := index.FileDescriptor{
		Path:       entry.QuarantinePath,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}
	digest, err := hasher.FullDigest(ctx, fd)
	if err != nil {
		return &ActionError{Op: "restore", Path: entry.QuarantinePath, Err: err}
	}
	if digest != entry.Digest {
		return &ActionError{
			Op:   "restore",
			Path: entry.QuarantinePath,
			Err:  fmt.Errorf("digest mismatch: quarantined copy is %s, manifest says %s", digest, entry.Digest),
		}
	}

	if _, err := os.Lstat(entry.OriginalPath); err == nil {
		return &ActionError{
			Op:   "restore",
			Path: entry.QuarantinePath,
			Err:  fmt.Errorf("original path %s is occupied", entry.OriginalPath),
		}
	}

	if err := os.MkdirAll(filepath.Dir(entry.OriginalPath), constants.StandardDirPerms); err != nil {
		return &ActionError{Op: "restore", Path: entry.QuarantinePath, Err: err}
	}
	if err := os.Rename(entry.QuarantinePath, entry.OriginalPath); err != nil {
		return &ActionError{Op: "restore", Path: entry.QuarantinePath, Err: err}
	}
	return nil
}
