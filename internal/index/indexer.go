/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package index

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/substantialcattle5/naib/internal/config"
	"github.com/substantialcattle5/naib/internal/logger"
)

// Indexer walks a directory tree and emits FileDescriptors for every
// regular file that survives the inclusion policy. One Indexer performs
// one walk; re-invoke Walk to re-scan.
type Indexer struct {
	root           string
	excludePaths   []string
	excludeGlobs   []string
	skipExtensions map[string]bool
	minSize        int64
	maxSize        int64

	scanErrors []*ScanError
	siblings   map[string][]string
	scanned    int
	skipped    int
}

// NewIndexer builds an indexer from the run configuration. The platform
// deny-list is merged into the excluded prefixes unconditionally; user
// configuration cannot override it.
func NewIndexer(cfg config.Config) *Indexer {
	skipExts := make(map[string]bool, len(cfg.SkipExtensions))
	for _, ext := range cfg.SkipExtensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		skipExts[ext] = true
	}

	excludes := append([]string{}, cfg.ExcludePaths...)
	excludes = append(excludes, systemDenyList()...)

	return &Indexer{
		root:           cfg.Root,
		excludePaths:   excludes,
		excludeGlobs:   cfg.ExcludeGlobs,
		skipExtensions: skipExts,
		minSize:        cfg.MinSize,
		maxSize:        cfg.MaxSize,
		siblings:       make(map[string][]string),
	}
}

// Walk traverses the tree and calls emit for every matching file. Paths
// whose metadata cannot be read are recorded as ScanErrors and skipped;
// directory symlinks are never followed. Walk returns an error only when
// the context is cancelled or the root itself is unusable.
func (ix *Indexer) Walk(ctx context.Context, emit func(FileDescriptor)) error {
	ix.scanErrors = nil
	ix.siblings = make(map[string][]string)
	ix.scanned = 0
	ix.skipped = 0

	log := logger.Get()
	log.Info().Str("root", ix.root).Msg("starting scan")

	walkErr := filepath.WalkDir(ix.root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			ix.recordError(path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != ix.root && ix.excludedDir(path) {
				log.Debug().Str("dir", path).Msg("excluded directory")
				return fs.SkipDir
			}
			return nil
		}

		// WalkDir uses Lstat semantics, so a symlinked directory shows up
		// here as a symlink entry. Skip every symlink: neither an error
		// nor a match.
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		dir := filepath.Dir(path)
		ix.siblings[dir] = append(ix.siblings[dir], d.Name())

		if ix.excludedFile(path) {
			ix.skipped++
			return nil
		}

		info, err := d.Info()
		if err != nil {
			ix.recordError(path, err)
			return nil
		}

		size := info.Size()
		if size < ix.minSize || (ix.maxSize > 0 && size > ix.maxSize) {
			ix.skipped++
			return nil
		}

		ix.scanned++
		if ix.scanned%1000 == 0 {
			log.Info().Int("files", ix.scanned).Msg("scan progress")
		}

		emit(FileDescriptor{
			Path:       path,
			Size:       size,
			CreatedAt:  creationTime(info),
			ModifiedAt: info.ModTime(),
			Extension:  strings.ToLower(filepath.Ext(path)),
			Depth:      ix.depthOf(path),
		})
		return nil
	})

	if walkErr != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if walkErr != nil {
		return walkErr
	}

	log.Info().
		Int("scanned", ix.scanned).
		Int("skipped", ix.skipped).
		Int("errors", len(ix.scanErrors)).
		Msg("scan complete")

	return nil
}

// ScanErrors returns the paths skipped because their metadata was
// unreadable during the last walk.
func (ix *Indexer) ScanErrors() []*ScanError {
	return ix.scanErrors
}

// Scanned returns how many files the last walk emitted.
func (ix *Indexer) Scanned() int {
	return ix.scanned
}

// Skipped returns how many files the policy filtered out.
func (ix *Indexer) Skipped() int {
	return ix.skipped
}

// SiblingFiles returns the regular file names observed in dir during the
// last walk. The decision engine consumes this instead of re-reading
// directories.
func (ix *Indexer) SiblingFiles(dir string) []string {
	return ix.siblings[dir]
}

func (ix *Indexer) recordError(path string, err error) {
	ix.scanErrors = append(ix.scanErrors, &ScanError{Path: path, Err: err})
	logger.Get().Debug().Str("path", path).Err(err).Msg("cannot access path")
}

func (ix *Indexer) excludedDir(path string) bool {
	for _, prefix := range ix.excludePaths {
		if path == prefix || strings.HasPrefix(path, prefix+string(os.PathSeparator)) {
			return true
		}
	}
	for _, pattern := range ix.excludeGlobs {
		if matchGlob(pattern, path) {
			return true
		}
	}
	return false
}

func (ix *Indexer) excludedFile(path string) bool {
	for _, prefix := range ix.excludePaths {
		if strings.HasPrefix(path, prefix+string(os.PathSeparator)) {
			return true
		}
	}
	for _, pattern := range ix.excludeGlobs {
		if matchGlob(pattern, path) {
			return true
		}
	}
	if ix.skipExtensions[strings.ToLower(filepath.Ext(path))] {
		return true
	}
	return false
}

func (ix *Indexer) depthOf(path string) int {
	rel, err := filepath.Rel(ix.root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(os.PathSeparator))
}

// matchGlob matches a pattern against the base name, or against the whole
// path when the pattern itself contains a separator.
func matchGlob(pattern, path string) bool {
	target := filepath.Base(path)
	if strings.ContainsRune(pattern, os.PathSeparator) || strings.ContainsRune(pattern, '/') {
		target = path
	}
	ok, err := filepath.Match(strings.ToLower(pattern), strings.ToLower(target))
	if err != nil {
		return false
	}
	return ok
}
