/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package hash

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/substantialcattle5/naib/internal/constants"
	"github.com/substantialcattle5/naib/internal/index"
)

// ErrFileChanged marks a file whose size or modification time moved between
// indexing and full hashing. The file is inconsistent and must be excluded
// from its cluster rather than silently matched.
var ErrFileChanged = errors.New("file changed during scan")

// HashError records a file whose content could not be read (or stayed
// consistent) during digest computation. The caller excludes the file from
// further comparison; the run continues.
type HashError struct {
	Path string
	Err  error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("hash %s: %v", e.Path, e.Err)
}

func (e *HashError) Unwrap() error {
	return e.Err
}

// Hasher computes partial and full content digests with bounded memory.
// It is safe for concurrent use; the optional throttle is shared across
// workers.
type Hasher struct {
	algorithm string
	throttle  *Throttle
}

// NewHasher creates a hasher for the configured algorithm. A nil throttle
// means unlimited read bandwidth.
func NewHasher(algorithm string, throttle *Throttle) (*Hasher, error) {
	switch algorithm {
	case "", constants.HashAlgorithmSHA256, constants.HashAlgorithmBLAKE3:
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", algorithm)
	}
	return &Hasher{algorithm: algorithm, throttle: throttle}, nil
}

// createHasher creates the underlying hash.Hash for the configured algorithm.
func (h *Hasher) createHasher() hash.Hash {
	switch h.algorithm {
	case constants.HashAlgorithmBLAKE3:
		return blake3.New()
	default: // Default to SHA-256 if empty
		return sha256.New()
	}
}

// PartialDigest samples the first, middle and last PartialSampleSize bytes
// of a file and digests them. Files smaller than three samples are hashed
// whole. At most 3*PartialSampleSize bytes are ever read.
func (h *Hasher) PartialDigest(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", &HashError{Path: path, Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", &HashError{Path: path, Err: err}
	}

	const sample = int64(constants.PartialSampleSize)
	hasher := h.createHasher()
	size := info.Size()

	if size <= 3*sample {
		if err := h.copyChunked(ctx, hasher, file, size); err != nil {
			return "", &HashError{Path: path, Err: err}
		}
		return hex.EncodeToString(hasher.Sum(nil)), nil
	}

	offsets := []int64{0, size/2 - sample/2, size - sample}
	for _, offset := range offsets {
		if _, err := file.Seek(offset, io.SeekStart); err != nil {
			return "", &HashError{Path: path, Err: err}
		}
		if err := h.copyChunked(ctx, hasher, file, sample); err != nil {
			return "", &HashError{Path: path, Err: err}
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// FullDigest streams the entire file through the hash function in fixed
// chunks. The descriptor's size and mtime are re-checked against the live
// file first; any drift is reported as ErrFileChanged.
func (h *Hasher) FullDigest(ctx context.Context, fd index.FileDescriptor) (string, error) {
	info, err := os.Stat(fd.Path)
	if err != nil {
		return "", &HashError{Path: fd.Path, Err: err}
	}
	if info.Size() != fd.Size || !info.ModTime().Equal(fd.ModifiedAt) {
		return "", &HashError{Path: fd.Path, Err: ErrFileChanged}
	}

	file, err := os.Open(fd.Path)
	if err != nil {
		return "", &HashError{Path: fd.Path, Err: err}
	}
	defer file.Close()

	hasher := h.createHasher()
	if err := h.copyChunked(ctx, hasher, file, info.Size()); err != nil {
		return "", &HashError{Path: fd.Path, Err: err}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// copyChunked copies exactly n bytes from r into w in FullHashChunkSize
// reads, observing cancellation and the shared throttle between chunks.
func (h *Hasher) copyChunked(ctx context.Context, w io.Writer, r io.Reader, n int64) error {
	buffer := make([]byte, constants.FullHashChunkSize)
	remaining := n

	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		chunk := int64(len(buffer))
		if remaining < chunk {
			chunk = remaining
		}

		if err := h.throttle.WaitN(ctx, int(chunk)); err != nil {
			return err
		}

		read, err := io.ReadFull(r, buffer[:chunk])
		if read > 0 {
			if _, werr := w.Write(buffer[:read]); werr != nil {
				return werr
			}
			remaining -= int64(read)
		}
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				// Shorter than expected: the caller's size check will
				// already have caught real drift, stop cleanly here.
				return nil
			}
			return err
		}
	}

	return nil
}
