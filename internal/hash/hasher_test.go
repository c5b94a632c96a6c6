package hash

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/substantialcattle5/naib/internal/constants"
	"github.com/substantialcattle5/naib/internal/index"
	"github.com/substantialcattle5/naib/testutil"
)

func descriptorFor(t *testing.T, path string) index.FileDescriptor {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	return index.FileDescriptor{
		Path:       path,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}
}

func TestFullDigestMatchesSHA256(t *testing.T) {
	dir := testutil.TempDir(t, "hash-test")
	content := "the spice must flow"
	path := testutil.CreateTestFile(t, dir, "file.txt", content)

	hasher, err := NewHasher(constants.HashAlgorithmSHA256, nil)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}

	got, err := hasher.FullDigest(context.Background(), descriptorFor(t, path))
	if err != nil {
		t.Fatalf("FullDigest failed: %v", err)
	}

	sum := sha256.Sum256([]byte(content))
	want := hex.EncodeToString(sum[:])
	if got != want {
		t.Errorf("FullDigest = %s, want %s", got, want)
	}
}

func TestFullDigestLargeFileStreams(t *testing.T) {
	dir := testutil.TempDir(t, "hash-large-test")
	// Larger than one read chunk so the streaming loop iterates.
	size := int64(constants.FullHashChunkSize + 12345)
	path := testutil.CreateTestFileWithSize(t, dir, "large.bin", size)

	hasher, err := NewHasher(constants.HashAlgorithmSHA256, nil)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}

	got, err := hasher.FullDigest(context.Background(), descriptorFor(t, path))
	if err != nil {
		t.Fatalf("FullDigest failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	sum := sha256.Sum256(data)
	if got != hex.EncodeToString(sum[:]) {
		t.Error("streamed digest does not match whole-file digest")
	}
}

func TestPartialDigestSmallFileEqualsWholeFileHash(t *testing.T) {
	dir := testutil.TempDir(t, "hash-partial-small")
	content := "tiny"
	path := testutil.CreateTestFile(t, dir, "tiny.txt", content)

	hasher, _ := NewHasher(constants.HashAlgorithmSHA256, nil)
	got, err := hasher.PartialDigest(context.Background(), path)
	if err != nil {
		t.Fatalf("PartialDigest failed: %v", err)
	}

	sum := sha256.Sum256([]byte(content))
	if got != hex.EncodeToString(sum[:]) {
		t.Error("small-file partial digest should hash the whole file")
	}
}

func TestPartialDigestDistinguishesLargeFiles(t *testing.T) {
	dir := testutil.TempDir(t, "hash-partial-large")
	size := 4 * constants.PartialSampleSize

	base := bytes.Repeat([]byte{0xAA}, size)
	same := make([]byte, size)
	copy(same, base)
	different := make([]byte, size)
	copy(different, base)
	different[size/2] = 0xBB // differs only in the middle sample

	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}

	hasher, _ := NewHasher(constants.HashAlgorithmSHA256, nil)
	ctx := context.Background()

	d1, err := hasher.PartialDigest(ctx, write("base.bin", base))
	if err != nil {
		t.Fatalf("PartialDigest failed: %v", err)
	}
	d2, err := hasher.PartialDigest(ctx, write("same.bin", same))
	if err != nil {
		t.Fatalf("PartialDigest failed: %v", err)
	}
	d3, err := hasher.PartialDigest(ctx, write("different.bin", different))
	if err != nil {
		t.Fatalf("PartialDigest failed: %v", err)
	}

	if d1 != d2 {
		t.Error("identical files must share a partial digest")
	}
	if d1 == d3 {
		t.Error("middle-sample difference must change the partial digest")
	}
}

func TestBlake3Supported(t *testing.T) {
	dir := testutil.TempDir(t, "hash-blake3-test")
	path := testutil.CreateTestFile(t, dir, "file.txt", "content")

	hasher, err := NewHasher(constants.HashAlgorithmBLAKE3, nil)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}

	digest, err := hasher.FullDigest(context.Background(), descriptorFor(t, path))
	if err != nil {
		t.Fatalf("FullDigest failed: %v", err)
	}
	if len(digest) != 64 {
		t.Errorf("blake3 digest length = %d hex chars, want 64", len(digest))
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	if _, err := NewHasher("md5", nil); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
}

func TestFullDigestDetectsChangedFile(t *testing.T) {
	dir := testutil.TempDir(t, "hash-changed-test")
	path := testutil.CreateTestFile(t, dir, "file.txt", "original content")

	fd := descriptorFor(t, path)

	// Mutate the file after indexing, as a mid-scan writer would.
	if err := os.WriteFile(path, []byte("changed content!!"), 0o644); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	testutil.SetFileTimes(t, path, time.Now().Add(time.Hour))

	hasher, _ := NewHasher(constants.HashAlgorithmSHA256, nil)
	_, err := hasher.FullDigest(context.Background(), fd)
	if err == nil {
		t.Fatal("expected error for changed file")
	}

	var hashErr *HashError
	if !errors.As(err, &hashErr) {
		t.Fatalf("expected *HashError, got %T", err)
	}
	if !errors.Is(err, ErrFileChanged) {
		t.Errorf("expected ErrFileChanged, got %v", hashErr.Err)
	}
}

func TestMissingFileIsHashError(t *testing.T) {
	hasher, _ := NewHasher(constants.HashAlgorithmSHA256, nil)

	_, err := hasher.PartialDigest(context.Background(), "/nonexistent/file.bin")
	var hashErr *HashError
	if !errors.As(err, &hashErr) {
		t.Fatalf("expected *HashError, got %T (%v)", err, err)
	}
}

func TestThrottleDisabledWhenEmpty(t *testing.T) {
	throttle, err := NewThrottle("")
	if err != nil {
		t.Fatalf("NewThrottle failed: %v", err)
	}
	if throttle != nil {
		t.Error("empty limit should produce a nil throttle")
	}
	// nil throttle must be usable
	if err := throttle.WaitN(context.Background(), 1024); err != nil {
		t.Errorf("nil throttle WaitN failed: %v", err)
	}
}

func TestThrottleParsesLimits(t *testing.T) {
	throttle, err := NewThrottle("2M")
	if err != nil {
		t.Fatalf("NewThrottle failed: %v", err)
	}
	if throttle.Rate() != float64(2*1024*1024) {
		t.Errorf("Rate() = %f, want %f", throttle.Rate(), float64(2*1024*1024))
	}
	if throttle.Limit() != "2M" {
		t.Errorf("Limit() = %q, want 2M", throttle.Limit())
	}
}

func TestThrottleRejectsGarbage(t *testing.T) {
	if _, err := NewThrottle("fast"); err == nil {
		t.Fatal("expected error for invalid limit string")
	}
}
